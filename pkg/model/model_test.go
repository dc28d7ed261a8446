package model

import (
	"testing"

	"github.com/google/uuid"
)

// TestResolveTarget 目标班次数解析
func TestResolveTarget(t *testing.T) {
	set := &EmployeeSettings{MinShiftsPerWeek: 2, MaxShiftsPerWeek: 5}
	if got := set.ResolveTarget(); got != 3 {
		t.Errorf("缺省目标应取区间中点 3, 实际 %d", got)
	}

	explicit := 4
	set.TargetShifts = &explicit
	if got := set.ResolveTarget(); got != 4 {
		t.Errorf("显式目标应为 4, 实际 %d", got)
	}
}

// TestBoundFor 按类别的偏好区间查询
func TestBoundFor(t *testing.T) {
	set := &EmployeeSettings{
		ClassBounds: map[ShiftClass]ClassBound{
			ClassNight: {Min: 1, Max: 3},
		},
	}

	b, ok := set.BoundFor(ClassNight)
	if !ok || b.Min != 1 || b.Max != 3 {
		t.Errorf("夜班区间应为 [1,3], 实际 ok=%v, b=%+v", ok, b)
	}
	if _, ok := set.BoundFor(ClassMorning); ok {
		t.Error("未配置的类别不应返回区间")
	}

	empty := &EmployeeSettings{}
	if _, ok := empty.BoundFor(ClassNight); ok {
		t.Error("空配置不应返回区间")
	}
}

// TestIsActive 在职判定
func TestIsActive(t *testing.T) {
	active := &Employee{Status: "active"}
	if !active.IsActive() {
		t.Error("active 状态应判定为在职")
	}
	for _, status := range []string{"inactive", "leave", ""} {
		e := &Employee{Status: status}
		if e.IsActive() {
			t.Errorf("状态 %q 不应判定为在职", status)
		}
	}
}

// TestShiftClassValid 班次类别合法性
func TestShiftClassValid(t *testing.T) {
	for _, c := range []ShiftClass{ClassMorning, ClassAfternoon, ClassNight} {
		if !c.Valid() {
			t.Errorf("类别 %s 应合法", c)
		}
	}
	if ShiftClass("graveyard").Valid() {
		t.Error("未知类别不应合法")
	}
}

// TestConflictingSlots 指定与不可用的交集
func TestConflictingSlots(t *testing.T) {
	shiftID := uuid.New()
	otherID := uuid.New()

	st := &EmployeeState{
		Forced:      []Slot{{Day: 2, ShiftID: shiftID}, {Day: 4, ShiftID: otherID}},
		Unavailable: []Slot{{Day: 2, ShiftID: shiftID}},
	}

	conflicts := st.ConflictingSlots()
	if len(conflicts) != 1 {
		t.Fatalf("冲突槽位数应为 1, 实际 %d", len(conflicts))
	}
	if conflicts[0].Day != 2 || conflicts[0].ShiftID != shiftID {
		t.Errorf("冲突槽位不符: %+v", conflicts[0])
	}

	clean := &EmployeeState{
		Forced:      []Slot{{Day: 1, ShiftID: shiftID}},
		Unavailable: []Slot{{Day: 1, ShiftID: otherID}},
	}
	if len(clean.ConflictingSlots()) != 0 {
		t.Error("不同班次的同日槽位不应视为冲突")
	}
}

// TestHasSlot 槽位查找
func TestHasSlot(t *testing.T) {
	shiftID := uuid.New()
	slots := []Slot{{Day: 0, ShiftID: shiftID}}

	if !HasSlot(slots, 0, shiftID) {
		t.Error("应找到存在的槽位")
	}
	if HasSlot(slots, 1, shiftID) {
		t.Error("不应找到不同天的槽位")
	}
	if HasSlot(nil, 0, shiftID) {
		t.Error("空列表不应命中")
	}
}

// TestSolveStatusHasSolution 结果状态与赋值可用性
func TestSolveStatusHasSolution(t *testing.T) {
	if !StatusOptimal.HasSolution() || !StatusFeasible.HasSolution() {
		t.Error("最优与可行状态应携带解")
	}
	if StatusInfeasible.HasSolution() || StatusUnknown.HasSolution() {
		t.Error("不可行与未知状态不应携带解")
	}
}

// TestShiftClassification 班次类别判定
func TestShiftClassification(t *testing.T) {
	night := &ShiftDefinition{Class: ClassNight}
	if !night.IsNight() || night.IsMorning() {
		t.Error("夜班类别判定错误")
	}
	morning := &ShiftDefinition{Class: ClassMorning}
	if !morning.IsMorning() || morning.IsNight() {
		t.Error("早班类别判定错误")
	}
}
