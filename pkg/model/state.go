// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// Slot 周期内的一个 (天, 班次) 槽位
// Day 为相对周期起点的偏移，从 0 开始
type Slot struct {
	Day     int       `json:"day"`
	ShiftID uuid.UUID `json:"shift_id"`
}

// EmployeeState 员工上一周期遗留状态
// 在求解前一次性加载，编译期间只读
type EmployeeState struct {
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`

	// 上一周期最后一天的出勤情况
	WorkedLastNoon  bool `json:"worked_last_noon" db:"worked_last_noon"`   // 午/晚班
	WorkedLastNight bool `json:"worked_last_night" db:"worked_last_night"` // 夜班
	// 上一周期倒数第二天的夜班，用于识别跨周期的三连夜班
	WorkedPriorNight bool `json:"worked_prior_night" db:"worked_prior_night"`

	// 进入本周期时已连续工作的天数
	Streak int `json:"streak" db:"streak"`

	// 不可用槽位：对应变量强制置 0
	Unavailable []Slot `json:"unavailable,omitempty" db:"unavailable"`
	// 指定槽位：对应变量强制置 1
	Forced []Slot `json:"forced,omitempty" db:"forced"`
}

// HasSlot 检查槽位列表中是否包含指定槽位
func HasSlot(slots []Slot, day int, shiftID uuid.UUID) bool {
	for _, s := range slots {
		if s.Day == day && s.ShiftID == shiftID {
			return true
		}
	}
	return false
}

// ConflictingSlots 返回既被指定又不可用的槽位
// 非空表示致命的输入错误，必须在求解前被发现
func (st *EmployeeState) ConflictingSlots() []Slot {
	var conflicts []Slot
	for _, f := range st.Forced {
		if HasSlot(st.Unavailable, f.Day, f.ShiftID) {
			conflicts = append(conflicts, f)
		}
	}
	return conflicts
}
