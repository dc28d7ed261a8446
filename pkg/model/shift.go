// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// ShiftClass 班次类别
// 连续夜班与跨周期休息逻辑引用类别而不是班次在一天内的位置
type ShiftClass string

const (
	ClassMorning   ShiftClass = "morning"   // 早班
	ClassAfternoon ShiftClass = "afternoon" // 午/晚班
	ClassNight     ShiftClass = "night"     // 夜班
)

// Valid 检查班次类别是否合法
func (c ShiftClass) Valid() bool {
	switch c {
	case ClassMorning, ClassAfternoon, ClassNight:
		return true
	}
	return false
}

// ShiftDefinition 班次定义
// Position 表示班次在一天内的时间顺序（0 为最早）
type ShiftDefinition struct {
	BaseModel
	WorkplaceID   uuid.UUID  `json:"workplace_id" db:"workplace_id"`
	Name          string     `json:"name" db:"name"`
	Position      int        `json:"position" db:"position"`
	Class         ShiftClass `json:"class" db:"class"`
	RequiredStaff int        `json:"required_staff" db:"required_staff"` // 每天该班次需要的精确人数
	StartTime     string     `json:"start_time,omitempty" db:"start_time"` // HH:MM
	EndTime       string     `json:"end_time,omitempty" db:"end_time"`     // HH:MM
}

// IsNight 检查是否为夜班
func (s *ShiftDefinition) IsNight() bool {
	return s.Class == ClassNight
}

// IsMorning 检查是否为早班
func (s *ShiftDefinition) IsMorning() bool {
	return s.Class == ClassMorning
}
