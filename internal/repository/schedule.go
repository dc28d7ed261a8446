// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

// ScheduleRepository 排班结果与员工状态仓储
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository 创建排班仓储
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetStates 加载某工作场所全部员工的遗留状态
func (r *ScheduleRepository) GetStates(ctx context.Context, workplaceID uuid.UUID) (map[uuid.UUID]*model.EmployeeState, error) {
	query := `
		SELECT s.employee_id, s.worked_last_noon, s.worked_last_night,
			s.worked_prior_night, s.streak, s.unavailable, s.forced
		FROM employee_states s
		JOIN employees e ON e.id = s.employee_id
		WHERE e.workplace_id = $1 AND e.deleted_at IS NULL
	`

	rows, err := r.db.QueryContext(ctx, query, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("查询员工状态失败: %w", err)
	}
	defer rows.Close()

	states := make(map[uuid.UUID]*model.EmployeeState)
	for rows.Next() {
		st := &model.EmployeeState{}
		var unavailableJSON, forcedJSON []byte
		err := rows.Scan(
			&st.EmployeeID, &st.WorkedLastNoon, &st.WorkedLastNight,
			&st.WorkedPriorNight, &st.Streak, &unavailableJSON, &forcedJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描员工状态行失败: %w", err)
		}
		if len(unavailableJSON) > 0 {
			json.Unmarshal(unavailableJSON, &st.Unavailable)
		}
		if len(forcedJSON) > 0 {
			json.Unmarshal(forcedJSON, &st.Forced)
		}
		states[st.EmployeeID] = st
	}
	return states, rows.Err()
}

// SaveState 写入或更新单个员工的遗留状态
func (r *ScheduleRepository) SaveState(ctx context.Context, st *model.EmployeeState) error {
	unavailableJSON, _ := json.Marshal(st.Unavailable)
	forcedJSON, _ := json.Marshal(st.Forced)

	query := `
		INSERT INTO employee_states (
			employee_id, worked_last_noon, worked_last_night,
			worked_prior_night, streak, unavailable, forced
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id) DO UPDATE SET
			worked_last_noon = EXCLUDED.worked_last_noon,
			worked_last_night = EXCLUDED.worked_last_night,
			worked_prior_night = EXCLUDED.worked_prior_night,
			streak = EXCLUDED.streak,
			unavailable = EXCLUDED.unavailable,
			forced = EXCLUDED.forced
	`

	_, err := r.db.ExecContext(ctx, query,
		st.EmployeeID, st.WorkedLastNoon, st.WorkedLastNight,
		st.WorkedPriorNight, st.Streak, unavailableJSON, forcedJSON,
	)
	if err != nil {
		return fmt.Errorf("保存员工状态失败: %w", err)
	}
	return nil
}

// SaveSchedule 持久化一次求解产出的排班表及全部分配记录
func (r *ScheduleRepository) SaveSchedule(ctx context.Context, sched *model.Schedule) error {
	if sched.ID == uuid.Nil {
		sched.ID = uuid.New()
	}
	now := time.Now()
	sched.CreatedAt = now
	sched.UpdatedAt = now

	query := `
		INSERT INTO schedules (
			id, workplace_id, cycle_start, status, objective, solved_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		sched.ID, sched.WorkplaceID, sched.CycleStart, sched.Status,
		sched.Objective, sched.SolvedAt, sched.CreatedAt, sched.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("保存排班表失败: %w", err)
	}

	insert := `
		INSERT INTO assignments (
			id, schedule_id, workplace_id, employee_id, shift_id, day, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, a := range sched.Assignments {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		_, err := r.db.ExecContext(ctx, insert,
			a.ID, sched.ID, a.WorkplaceID, a.EmployeeID, a.ShiftID, a.Day, now, now,
		)
		if err != nil {
			return fmt.Errorf("保存分配记录失败: %w", err)
		}
	}
	return nil
}

// GetSchedule 按ID读取排班表（含分配记录）
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `
		SELECT id, workplace_id, cycle_start, status, objective, solved_at, created_at, updated_at
		FROM schedules
		WHERE id = $1 AND deleted_at IS NULL
	`
	sched := &model.Schedule{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sched.ID, &sched.WorkplaceID, &sched.CycleStart, &sched.Status,
		&sched.Objective, &sched.SolvedAt, &sched.CreatedAt, &sched.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询排班表失败: %w", err)
	}

	list := `
		SELECT a.id, a.workplace_id, a.employee_id, a.shift_id, a.day,
			e.name, s.name, s.class, a.created_at, a.updated_at
		FROM assignments a
		JOIN employees e ON e.id = a.employee_id
		JOIN shift_definitions s ON s.id = a.shift_id
		WHERE a.schedule_id = $1
		ORDER BY a.day ASC, s.position ASC, e.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, list, id)
	if err != nil {
		return nil, fmt.Errorf("查询分配记录失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a := &model.Assignment{}
		err := rows.Scan(
			&a.ID, &a.WorkplaceID, &a.EmployeeID, &a.ShiftID, &a.Day,
			&a.EmployeeName, &a.ShiftName, &a.ShiftClass, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描分配记录行失败: %w", err)
		}
		sched.Assignments = append(sched.Assignments, a)
	}
	return sched, rows.Err()
}
