package scenario

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
	"github.com/paiban/cpban/pkg/scheduler/compiler"
)

// nightProblem 值夜场景：白天无人值守，每晚恰好一人
func nightProblem(e0, e1 *model.Employee, states map[uuid.UUID]*model.EmployeeState, w *model.WorkplaceWeights) *compiler.Problem {
	return &compiler.Problem{
		WorkplaceID: uuid.New(),
		Employees:   []*model.Employee{e0, e1},
		Shifts: []*model.ShiftDefinition{
			newShift("早班", 0, model.ClassMorning, 0),
			newShift("夜班", 1, model.ClassNight, 1),
		},
		States:  states,
		Weights: w,
	}
}

// TestNightsAvoidTripleRun 三连夜班惩罚可以完全避开
func TestNightsAvoidTripleRun(t *testing.T) {
	e0 := newEmployee("张三", 0, 0)
	e1 := newEmployee("李四", 0, 0)

	p := nightProblem(e0, e1, nil, &model.WorkplaceWeights{ConsecutiveNights: 1})

	result, err := compiler.New().Run(context.Background(), p)
	if err != nil {
		t.Fatalf("求解失败: %v", err)
	}
	if result.Status != model.StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %s", result.Status)
	}
	if result.Objective != 0 {
		t.Errorf("两人轮值足以避开三连夜班, 目标值应为 0, 实际 %d", result.Objective)
	}
	if len(result.Assignments) != 7 {
		t.Fatalf("一周 7 晚应产出 7 条分配, 实际 %d", len(result.Assignments))
	}

	for _, emp := range []*model.Employee{e0, e1} {
		var nights []int
		for _, a := range result.Assignments {
			if a.EmployeeID == emp.ID {
				if a.ShiftClass != model.ClassNight {
					t.Errorf("值夜场景的分配应全部为夜班, 实际 %s", a.ShiftClass)
				}
				nights = append(nights, a.Day)
			}
		}
		sort.Ints(nights)
		for i := 0; i+2 < len(nights); i++ {
			if nights[i+1] == nights[i]+1 && nights[i+2] == nights[i]+2 {
				t.Errorf("员工 %s 连上三晚: %v", emp.Name, nights[i:i+3])
			}
		}
	}
}

// TestNightsBoundaryTwoPrior 已连上两晚的员工首晚换人
func TestNightsBoundaryTwoPrior(t *testing.T) {
	e0 := newEmployee("张三", 0, 0)
	e1 := newEmployee("李四", 0, 0)

	states := map[uuid.UUID]*model.EmployeeState{
		e0.ID: {
			EmployeeID:       e0.ID,
			WorkedLastNight:  true,
			WorkedPriorNight: true,
		},
	}
	p := nightProblem(e0, e1, states, &model.WorkplaceWeights{ConsecutiveNights: 1})

	result, err := compiler.New().Run(context.Background(), p)
	if err != nil {
		t.Fatalf("求解失败: %v", err)
	}
	if result.Status != model.StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %s", result.Status)
	}
	if result.Objective != 0 {
		t.Errorf("首晚换人即可避开惩罚, 目标值应为 0, 实际 %d", result.Objective)
	}
	for _, a := range result.Assignments {
		if a.Day == 0 && a.EmployeeID == e0.ID {
			t.Error("已连上两晚的员工第 0 晚不应继续值夜")
		}
	}
}

// TestNightsDemandInfeasible 夜班需求超出在职人数
func TestNightsDemandInfeasible(t *testing.T) {
	e0 := newEmployee("张三", 0, 0)
	e1 := newEmployee("李四", 0, 0)

	p := &compiler.Problem{
		WorkplaceID: uuid.New(),
		Employees:   []*model.Employee{e0, e1},
		Shifts: []*model.ShiftDefinition{
			newShift("夜班", 0, model.ClassNight, 3),
		},
		Weights: &model.WorkplaceWeights{},
	}

	result, err := compiler.New().Run(context.Background(), p)
	if err != nil {
		t.Fatalf("不可行不是错误: %v", err)
	}
	if result.Status != model.StatusInfeasible {
		t.Fatalf("状态应为不可行, 实际 %s", result.Status)
	}
}
