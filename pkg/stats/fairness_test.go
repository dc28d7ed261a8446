package stats

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

func statEmployee(name string, target int) *model.Employee {
	e := &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      name,
		Status:    "active",
	}
	e.Settings = &model.EmployeeSettings{EmployeeID: e.ID, TargetShifts: &target}
	return e
}

func statAssignment(empID uuid.UUID, day int, class model.ShiftClass) *model.Assignment {
	return &model.Assignment{
		EmployeeID: empID,
		ShiftID:    uuid.New(),
		ShiftClass: class,
		Day:        day,
	}
}

// TestFairnessPerfectBalance 完全均衡的排班
func TestFairnessPerfectBalance(t *testing.T) {
	e0 := statEmployee("张三", 2)
	e1 := statEmployee("李四", 2)

	assignments := []*model.Assignment{
		statAssignment(e0.ID, 0, model.ClassMorning),
		statAssignment(e0.ID, 2, model.ClassMorning),
		statAssignment(e1.ID, 1, model.ClassMorning),
		statAssignment(e1.ID, 3, model.ClassMorning),
	}

	m := NewFairnessAnalyzer().Analyze(assignments, []*model.Employee{e0, e1})

	if m.ShiftCountGini != 0 {
		t.Errorf("均衡排班的基尼系数应为 0, 实际 %f", m.ShiftCountGini)
	}
	if m.MaxShifts != 2 || m.MinShifts != 2 {
		t.Errorf("最多/最少班次数应为 2/2, 实际 %d/%d", m.MaxShifts, m.MinShifts)
	}
	if m.TotalTargetDeviation != 0 {
		t.Errorf("总偏差应为 0, 实际 %d", m.TotalTargetDeviation)
	}
	if m.OverallFairnessScore != 100 {
		t.Errorf("综合评分应为 100, 实际 %f", m.OverallFairnessScore)
	}
}

// TestFairnessSkewed 倾斜排班的指标
func TestFairnessSkewed(t *testing.T) {
	e0 := statEmployee("张三", 2)
	e1 := statEmployee("李四", 2)

	// 全部 4 个班次压给一个人，其中两个夜班
	assignments := []*model.Assignment{
		statAssignment(e0.ID, 0, model.ClassMorning),
		statAssignment(e0.ID, 2, model.ClassMorning),
		statAssignment(e0.ID, 4, model.ClassNight),
		statAssignment(e0.ID, 6, model.ClassNight),
	}

	m := NewFairnessAnalyzer().Analyze(assignments, []*model.Employee{e0, e1})

	// 两人 (4, 0)：基尼系数 0.5
	if math.Abs(m.ShiftCountGini-0.5) > 1e-9 {
		t.Errorf("基尼系数应为 0.5, 实际 %f", m.ShiftCountGini)
	}
	if m.MaxShifts != 4 || m.MinShifts != 0 {
		t.Errorf("最多/最少班次数应为 4/0, 实际 %d/%d", m.MaxShifts, m.MinShifts)
	}
	// 偏差 |4-2| + |0-2| = 4
	if m.TotalTargetDeviation != 4 {
		t.Errorf("总偏差应为 4, 实际 %d", m.TotalTargetDeviation)
	}
	if m.NightShiftGini <= 0 {
		t.Errorf("夜班全压给一人时夜班基尼系数应大于 0, 实际 %f", m.NightShiftGini)
	}
	if len(m.EmployeeStats) != 2 {
		t.Fatalf("员工统计数应为 2, 实际 %d", len(m.EmployeeStats))
	}
	// 班次数多的在前
	if m.EmployeeStats[0].ShiftCount < m.EmployeeStats[1].ShiftCount {
		t.Error("员工统计应按班次数降序")
	}
	if m.EmployeeStats[0].NightShifts != 2 {
		t.Errorf("夜班数应为 2, 实际 %d", m.EmployeeStats[0].NightShifts)
	}
}

// TestFairnessIgnoresInactive 非在职员工不计入
func TestFairnessIgnoresInactive(t *testing.T) {
	e0 := statEmployee("张三", 1)
	e1 := statEmployee("李四", 1)
	e1.Status = "leave"

	assignments := []*model.Assignment{
		statAssignment(e0.ID, 0, model.ClassMorning),
	}

	m := NewFairnessAnalyzer().Analyze(assignments, []*model.Employee{e0, e1})
	if len(m.EmployeeStats) != 1 {
		t.Errorf("只应统计在职员工, 实际 %d 条", len(m.EmployeeStats))
	}
}

// TestFairnessEmpty 空输入
func TestFairnessEmpty(t *testing.T) {
	m := NewFairnessAnalyzer().Analyze(nil, nil)
	if m.OverallFairnessScore != 100 {
		t.Errorf("空排班的评分应为 100, 实际 %f", m.OverallFairnessScore)
	}
}

// TestGiniOf 基尼系数边界
func TestGiniOf(t *testing.T) {
	if g := giniOf(nil); g != 0 {
		t.Errorf("空序列的基尼系数应为 0, 实际 %f", g)
	}
	if g := giniOf([]float64{0, 0, 0}); g != 0 {
		t.Errorf("全零序列的基尼系数应为 0, 实际 %f", g)
	}
	if g := giniOf([]float64{3, 3, 3}); math.Abs(g) > 1e-9 {
		t.Errorf("均匀序列的基尼系数应为 0, 实际 %f", g)
	}
}
