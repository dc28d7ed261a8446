package compiler

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

func stateAssignment(emp *model.Employee, shift *model.ShiftDefinition, day int) *model.Assignment {
	return &model.Assignment{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		ShiftID:      shift.ID,
		ShiftName:    shift.Name,
		ShiftClass:   shift.Class,
		Day:          day,
	}
}

// TestNextStates 由排班推导下一周期遗留状态
func TestNextStates(t *testing.T) {
	e0 := testEmployee("张三", 0, 0)
	e1 := testEmployee("李四", 0, 0)
	morning := testShift("早班", 0, model.ClassMorning, 1)
	noon := testShift("午班", 1, model.ClassAfternoon, 1)
	night := testShift("夜班", 2, model.ClassNight, 1)

	p := &Problem{
		WorkplaceID: uuid.New(),
		Employees:   []*model.Employee{e0, e1},
		Shifts:      []*model.ShiftDefinition{morning, noon, night},
		States: map[uuid.UUID]*model.EmployeeState{
			e1.ID: {EmployeeID: e1.ID, Streak: 2},
		},
		Weights: &model.WorkplaceWeights{},
	}

	// 张三：第 3-6 天出勤，末两天均为夜班
	// 李四：整周出勤，最后一天午班
	var assignments []*model.Assignment
	assignments = append(assignments,
		stateAssignment(e0, morning, 3),
		stateAssignment(e0, morning, 4),
		stateAssignment(e0, night, 5),
		stateAssignment(e0, night, 6),
	)
	for d := 0; d < 6; d++ {
		assignments = append(assignments, stateAssignment(e1, morning, d))
	}
	assignments = append(assignments, stateAssignment(e1, noon, 6))

	states := NextStates(p, assignments)
	if len(states) != 2 {
		t.Fatalf("应生成 2 名员工的状态, 实际 %d", len(states))
	}

	st0 := states[e0.ID]
	if !st0.WorkedLastNight || !st0.WorkedPriorNight {
		t.Errorf("张三末两天均为夜班, 实际 last=%v prior=%v", st0.WorkedLastNight, st0.WorkedPriorNight)
	}
	if st0.WorkedLastNoon {
		t.Error("张三最后一天不是午班")
	}
	if st0.Streak != 4 {
		t.Errorf("张三连班应为 4, 实际 %d", st0.Streak)
	}

	st1 := states[e1.ID]
	if !st1.WorkedLastNoon {
		t.Error("李四最后一天为午班")
	}
	if st1.WorkedLastNight || st1.WorkedPriorNight {
		t.Error("李四末两天没有夜班")
	}
	// 整周无休，叠加带入的 2 天连班
	if st1.Streak != 9 {
		t.Errorf("李四连班应为 7+2=9, 实际 %d", st1.Streak)
	}
	if len(st0.Unavailable) != 0 || len(st0.Forced) != 0 {
		t.Error("槽位约束不应跨周期携带")
	}
}

// TestNextStatesSkipsInactive 非在职员工不生成状态
func TestNextStatesSkipsInactive(t *testing.T) {
	e0 := testEmployee("张三", 0, 0)
	e1 := testEmployee("李四", 0, 0)
	e1.Status = "leave"
	shift := testShift("早班", 0, model.ClassMorning, 1)

	p := &Problem{
		WorkplaceID: uuid.New(),
		Employees:   []*model.Employee{e0, e1},
		Shifts:      []*model.ShiftDefinition{shift},
		Weights:     &model.WorkplaceWeights{},
	}

	states := NextStates(p, []*model.Assignment{stateAssignment(e0, shift, 6)})
	if len(states) != 1 {
		t.Fatalf("仅在职员工生成状态, 实际 %d", len(states))
	}
	st := states[e0.ID]
	if st.Streak != 1 || st.WorkedLastNight {
		t.Errorf("张三仅最后一天早班, 实际 streak=%d night=%v", st.Streak, st.WorkedLastNight)
	}
	if _, ok := states[e1.ID]; ok {
		t.Error("离职员工不应生成状态")
	}
}
