// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// Employee 员工
type Employee struct {
	BaseModel
	WorkplaceID uuid.UUID `json:"workplace_id" db:"workplace_id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code" db:"code"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Email       string    `json:"email,omitempty" db:"email"`
	Status      string    `json:"status" db:"status"` // active/inactive/leave

	// 合同与偏好设置
	Settings *EmployeeSettings `json:"settings,omitempty" db:"settings"`
}

// IsActive 检查员工是否在职
// 非在职员工的所有决策变量会被强制置 0，且不计入覆盖约束
func (e *Employee) IsActive() bool {
	return e.Status == "active"
}

// ClassBound 按班次类别的数量区间
type ClassBound struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// EmployeeSettings 员工合同与偏好设置
// 每周期最少/最多班次为硬约束；按类别的区间与目标班次数为软约束
type EmployeeSettings struct {
	EmployeeID       uuid.UUID `json:"employee_id" db:"employee_id"`
	MinShiftsPerWeek int       `json:"min_shifts_per_week" db:"min_shifts_per_week"`
	MaxShiftsPerWeek int       `json:"max_shifts_per_week" db:"max_shifts_per_week"`

	// 按班次类别的偏好区间（如最多夜班数），缺省表示不限制
	ClassBounds map[ShiftClass]ClassBound `json:"class_bounds,omitempty" db:"class_bounds"`

	// 目标班次数，用于公平性评分
	// 为空时在加载阶段解析为 (min+max)/2，约束生成阶段不再做缺省推断
	TargetShifts *int `json:"target_shifts,omitempty" db:"target_shifts"`
}

// ResolveTarget 解析目标班次数
// 未配置时取每周区间的中点，解析发生在模型构建阶段
func (s *EmployeeSettings) ResolveTarget() int {
	if s.TargetShifts != nil {
		return *s.TargetShifts
	}
	return (s.MinShiftsPerWeek + s.MaxShiftsPerWeek) / 2
}

// BoundFor 返回某类别的偏好区间
func (s *EmployeeSettings) BoundFor(class ShiftClass) (ClassBound, bool) {
	if s.ClassBounds == nil {
		return ClassBound{}, false
	}
	b, ok := s.ClassBounds[class]
	return b, ok
}
