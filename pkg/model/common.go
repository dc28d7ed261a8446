// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// CycleDays 排班周期天数（固定一周）
const CycleDays = 7

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Workplace 工作场所
// 员工、班次定义和权重都归属于某个工作场所
type Workplace struct {
	BaseModel
	Name      string `json:"name" db:"name"`
	Code      string `json:"code" db:"code"`
	CycleDays int    `json:"cycle_days" db:"cycle_days"` // 排班周期天数
}

// SolveStatus 求解状态
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"    // 已证明最优
	StatusFeasible   SolveStatus = "feasible"   // 可行解（时间耗尽，未证明最优）
	StatusInfeasible SolveStatus = "infeasible" // 无可行解
	StatusUnknown    SolveStatus = "unknown"    // 时间耗尽且无任何解
)

// HasSolution 状态是否携带可解码的解
func (s SolveStatus) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}
