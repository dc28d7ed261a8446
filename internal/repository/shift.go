// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

// ShiftRepository 班次定义与权重仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建班次仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// Create 创建班次定义
func (r *ShiftRepository) Create(ctx context.Context, shift *model.ShiftDefinition) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	query := `
		INSERT INTO shift_definitions (
			id, workplace_id, name, position, class, required_staff,
			start_time, end_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.WorkplaceID, shift.Name, shift.Position, shift.Class,
		shift.RequiredStaff, shift.StartTime, shift.EndTime, shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建班次定义失败: %w", err)
	}
	return nil
}

// ListByWorkplace 按一天内的时间顺序列出班次定义
func (r *ShiftRepository) ListByWorkplace(ctx context.Context, workplaceID uuid.UUID) ([]*model.ShiftDefinition, error) {
	query := `
		SELECT id, workplace_id, name, position, class, required_staff,
			start_time, end_time, created_at, updated_at
		FROM shift_definitions
		WHERE workplace_id = $1 AND deleted_at IS NULL
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("查询班次定义失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.ShiftDefinition
	for rows.Next() {
		s := &model.ShiftDefinition{}
		err := rows.Scan(
			&s.ID, &s.WorkplaceID, &s.Name, &s.Position, &s.Class,
			&s.RequiredStaff, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描班次定义行失败: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// GetWeights 获取工作场所的软约束权重
func (r *ShiftRepository) GetWeights(ctx context.Context, workplaceID uuid.UUID) (*model.WorkplaceWeights, error) {
	query := `
		SELECT workplace_id, weight_rest_gap, weight_fairness,
			weight_consecutive_nights, weight_class_excess, weight_class_shortage
		FROM workplace_weights
		WHERE workplace_id = $1
	`

	w := &model.WorkplaceWeights{}
	err := r.db.QueryRowContext(ctx, query, workplaceID).Scan(
		&w.WorkplaceID, &w.RestGap, &w.Fairness,
		&w.ConsecutiveNights, &w.ClassExcess, &w.ClassShortage,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询权重失败: %w", err)
	}
	return w, nil
}

// SaveWeights 写入或更新工作场所权重
func (r *ShiftRepository) SaveWeights(ctx context.Context, w *model.WorkplaceWeights) error {
	query := `
		INSERT INTO workplace_weights (
			workplace_id, weight_rest_gap, weight_fairness,
			weight_consecutive_nights, weight_class_excess, weight_class_shortage
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workplace_id) DO UPDATE SET
			weight_rest_gap = EXCLUDED.weight_rest_gap,
			weight_fairness = EXCLUDED.weight_fairness,
			weight_consecutive_nights = EXCLUDED.weight_consecutive_nights,
			weight_class_excess = EXCLUDED.weight_class_excess,
			weight_class_shortage = EXCLUDED.weight_class_shortage
	`

	_, err := r.db.ExecContext(ctx, query,
		w.WorkplaceID, w.RestGap, w.Fairness,
		w.ConsecutiveNights, w.ClassExcess, w.ClassShortage,
	)
	if err != nil {
		return fmt.Errorf("保存权重失败: %w", err)
	}
	return nil
}
