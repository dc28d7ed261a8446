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

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create 创建员工
func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	now := time.Now()
	emp.CreatedAt = now
	emp.UpdatedAt = now

	settingsJSON, _ := json.Marshal(emp.Settings)

	query := `
		INSERT INTO employees (
			id, workplace_id, name, code, phone, email, status,
			settings, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.WorkplaceID, emp.Name, emp.Code, emp.Phone, emp.Email, emp.Status,
		settingsJSON, emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建员工失败: %w", err)
	}
	return nil
}

// GetByID 根据ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	query := `
		SELECT id, workplace_id, name, code, phone, email, status,
			settings, created_at, updated_at
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanEmployee(r.db.QueryRowContext(ctx, query, id))
}

// ListByWorkplace 列出某工作场所的全部员工（按插入顺序）
// 返回顺序即解码时的员工并列顺序
func (r *EmployeeRepository) ListByWorkplace(ctx context.Context, workplaceID uuid.UUID) ([]*model.Employee, error) {
	query := `
		SELECT id, workplace_id, name, code, phone, email, status,
			settings, created_at, updated_at
		FROM employees
		WHERE workplace_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("查询员工列表失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := r.scanEmployeeRow(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// UpdateSettings 更新员工合同设置
func (r *EmployeeRepository) UpdateSettings(ctx context.Context, empID uuid.UUID, settings *model.EmployeeSettings) error {
	settingsJSON, _ := json.Marshal(settings)

	query := `
		UPDATE employees SET settings = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, empID, settingsJSON, time.Now())
	if err != nil {
		return fmt.Errorf("更新员工设置失败: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("员工 %s 不存在", empID)
	}
	return nil
}

// scanEmployee 扫描单行员工
func (r *EmployeeRepository) scanEmployee(row *sql.Row) (*model.Employee, error) {
	emp := &model.Employee{}
	var settingsJSON []byte

	err := row.Scan(
		&emp.ID, &emp.WorkplaceID, &emp.Name, &emp.Code, &emp.Phone, &emp.Email, &emp.Status,
		&settingsJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	decodeSettings(emp, settingsJSON)
	return emp, nil
}

// scanEmployeeRow 扫描结果集中的一行
func (r *EmployeeRepository) scanEmployeeRow(rows *sql.Rows) (*model.Employee, error) {
	emp := &model.Employee{}
	var settingsJSON []byte

	err := rows.Scan(
		&emp.ID, &emp.WorkplaceID, &emp.Name, &emp.Code, &emp.Phone, &emp.Email, &emp.Status,
		&settingsJSON, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描员工行失败: %w", err)
	}
	decodeSettings(emp, settingsJSON)
	return emp, nil
}

func decodeSettings(emp *model.Employee, raw []byte) {
	if len(raw) > 0 && string(raw) != "null" {
		var settings model.EmployeeSettings
		if err := json.Unmarshal(raw, &settings); err == nil {
			emp.Settings = &settings
		}
	}
}
