// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment 排班结果记录
// 仅对被求解器置 1 的变量生成，解码后归调用方所有
type Assignment struct {
	BaseModel
	WorkplaceID  uuid.UUID  `json:"workplace_id" db:"workplace_id"`
	EmployeeID   uuid.UUID  `json:"employee_id" db:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty" db:"-"`
	ShiftID      uuid.UUID  `json:"shift_id" db:"shift_id"`
	ShiftName    string     `json:"shift_name,omitempty" db:"-"`
	ShiftClass   ShiftClass `json:"shift_class,omitempty" db:"-"`
	Day          int        `json:"day" db:"day"` // 相对周期起点的偏移
}

// Schedule 一次求解产出的排班表
type Schedule struct {
	BaseModel
	WorkplaceID uuid.UUID     `json:"workplace_id" db:"workplace_id"`
	CycleStart  string        `json:"cycle_start" db:"cycle_start"` // YYYY-MM-DD
	Status      SolveStatus   `json:"status" db:"status"`
	Objective   int           `json:"objective" db:"objective"` // 总惩罚值
	SolvedAt    time.Time     `json:"solved_at" db:"solved_at"`
	Assignments []*Assignment `json:"assignments,omitempty" db:"-"`
}
