package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

func coverageShift(name string, required int) *model.ShiftDefinition {
	return &model.ShiftDefinition{
		BaseModel:     model.BaseModel{ID: uuid.New()},
		Name:          name,
		RequiredStaff: required,
	}
}

// TestCoverageFull 完整覆盖
func TestCoverageFull(t *testing.T) {
	shift := coverageShift("早班", 1)
	var assignments []*model.Assignment
	for d := 0; d < 7; d++ {
		assignments = append(assignments, &model.Assignment{
			EmployeeID: uuid.New(),
			ShiftID:    shift.ID,
			Day:        d,
		})
	}

	m := NewCoverageAnalyzer(7).Analyze(assignments, []*model.ShiftDefinition{shift})

	if m.TotalRequired != 7 || m.TotalAssigned != 7 {
		t.Errorf("需求/分配人次应为 7/7, 实际 %d/%d", m.TotalRequired, m.TotalAssigned)
	}
	if m.OverallCoverage != 100 {
		t.Errorf("整体覆盖率应为 100, 实际 %f", m.OverallCoverage)
	}
	if len(m.SlotGaps) != 0 {
		t.Errorf("完整覆盖不应有缺口, 实际 %d 个", len(m.SlotGaps))
	}
	if len(m.DailyCoverage) != 7 {
		t.Errorf("每日覆盖条目应为 7, 实际 %d", len(m.DailyCoverage))
	}
}

// TestCoverageGaps 缺口与超配
func TestCoverageGaps(t *testing.T) {
	shift := coverageShift("早班", 2)

	// 第 0 天 1 人（缺 1），第 1 天 3 人（超 1），其余空缺
	assignments := []*model.Assignment{
		{EmployeeID: uuid.New(), ShiftID: shift.ID, Day: 0},
		{EmployeeID: uuid.New(), ShiftID: shift.ID, Day: 1},
		{EmployeeID: uuid.New(), ShiftID: shift.ID, Day: 1},
		{EmployeeID: uuid.New(), ShiftID: shift.ID, Day: 1},
	}

	m := NewCoverageAnalyzer(3).Analyze(assignments, []*model.ShiftDefinition{shift})

	if m.TotalRequired != 6 {
		t.Errorf("总需求应为 6, 实际 %d", m.TotalRequired)
	}
	if len(m.SlotGaps) != 3 {
		t.Fatalf("人数不符的槽位应为 3 个, 实际 %d", len(m.SlotGaps))
	}

	byDay := make(map[int]SlotGap)
	for _, g := range m.SlotGaps {
		byDay[g.Day] = g
	}
	if byDay[0].Delta != -1 {
		t.Errorf("第 0 天偏差应为 -1, 实际 %d", byDay[0].Delta)
	}
	if byDay[1].Delta != 1 {
		t.Errorf("第 1 天偏差应为 +1, 实际 %d", byDay[1].Delta)
	}
	if byDay[2].Delta != -2 {
		t.Errorf("第 2 天偏差应为 -2, 实际 %d", byDay[2].Delta)
	}

	if day := m.DailyCoverage[0]; day.CoverageRate != 50 {
		t.Errorf("第 0 天覆盖率应为 50, 实际 %f", day.CoverageRate)
	}
	// 超配按 100 截断
	if day := m.DailyCoverage[1]; day.CoverageRate != 100 {
		t.Errorf("第 1 天覆盖率应封顶为 100, 实际 %f", day.CoverageRate)
	}
}

// TestCoverageDefaults 缺省周期天数与空输入
func TestCoverageDefaults(t *testing.T) {
	a := NewCoverageAnalyzer(0)
	if a.days != model.CycleDays {
		t.Errorf("缺省周期应为 %d 天, 实际 %d", model.CycleDays, a.days)
	}

	m := a.Analyze(nil, nil)
	if m.OverallCoverage != 100 {
		t.Errorf("无班次时覆盖率应为 100, 实际 %f", m.OverallCoverage)
	}
}

// TestCoverageOutOfRangeDay 周期外的分配被忽略
func TestCoverageOutOfRangeDay(t *testing.T) {
	shift := coverageShift("早班", 1)
	assignments := []*model.Assignment{
		{EmployeeID: uuid.New(), ShiftID: shift.ID, Day: 9},
	}

	m := NewCoverageAnalyzer(3).Analyze(assignments, []*model.ShiftDefinition{shift})
	if m.TotalAssigned != 0 {
		t.Errorf("周期外的分配不应计入, 实际 %d", m.TotalAssigned)
	}
}
