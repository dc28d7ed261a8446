package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/errors"
	"github.com/paiban/cpban/pkg/model"
)

func activeEmployee(name string) *model.Employee {
	return &model.Employee{
		BaseModel: model.BaseModel{ID: uuid.New()},
		Name:      name,
		Status:    "active",
	}
}

func basicShift() *model.ShiftDefinition {
	return &model.ShiftDefinition{
		BaseModel:     model.BaseModel{ID: uuid.New()},
		Name:          "早班",
		Class:         model.ClassMorning,
		RequiredStaff: 1,
	}
}

// TestCheckProblemInputValid 合法输入通过校验
func TestCheckProblemInputValid(t *testing.T) {
	emp := activeEmployee("张三")
	err := CheckProblemInput(
		[]*model.Employee{emp},
		[]*model.ShiftDefinition{basicShift()},
		nil,
		&model.WorkplaceWeights{Fairness: 1},
	)
	if err != nil {
		t.Errorf("合法输入不应报错: %v", err)
	}
}

// TestCheckProblemInputEmpty 空名单与空班次
func TestCheckProblemInputEmpty(t *testing.T) {
	w := &model.WorkplaceWeights{}

	err := CheckProblemInput(nil, []*model.ShiftDefinition{basicShift()}, nil, w)
	if !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("空员工名单应报配置错误, 实际 %v", err)
	}

	err = CheckProblemInput([]*model.Employee{activeEmployee("张三")}, nil, nil, w)
	if !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("空班次列表应报配置错误, 实际 %v", err)
	}

	err = CheckProblemInput([]*model.Employee{activeEmployee("张三")}, []*model.ShiftDefinition{basicShift()}, nil, nil)
	if !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("缺少权重应报配置错误, 实际 %v", err)
	}
}

// TestCheckWeightsNegative 负权重
func TestCheckWeightsNegative(t *testing.T) {
	err := CheckWeights(&model.WorkplaceWeights{Fairness: -1})
	if !errors.Is(err, errors.CodeInvalidWeights) {
		t.Errorf("负权重应报错, 实际 %v", err)
	}

	if err := CheckWeights(&model.WorkplaceWeights{}); err != nil {
		t.Errorf("全零权重应合法: %v", err)
	}
}

// TestCheckShiftsInvalid 班次定义校验
func TestCheckShiftsInvalid(t *testing.T) {
	bad := basicShift()
	bad.RequiredStaff = -1
	if err := CheckShifts([]*model.ShiftDefinition{bad}); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("负需求人数应报错, 实际 %v", err)
	}

	unknown := basicShift()
	unknown.Class = "graveyard"
	if err := CheckShifts([]*model.ShiftDefinition{unknown}); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("未知类别应报错, 实际 %v", err)
	}
}

// TestCheckSettingsBounds 合同区间校验
func TestCheckSettingsBounds(t *testing.T) {
	emp := activeEmployee("李四")
	emp.Settings = &model.EmployeeSettings{MinShiftsPerWeek: 5, MaxShiftsPerWeek: 3}
	if err := CheckSettings(emp); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("下界大于上界应报错, 实际 %v", err)
	}

	// 上界为 0 表示不设上限，此时任何下界都合法
	emp.Settings = &model.EmployeeSettings{MinShiftsPerWeek: 5, MaxShiftsPerWeek: 0}
	if err := CheckSettings(emp); err != nil {
		t.Errorf("未设上限时下界应合法: %v", err)
	}

	emp.Settings = &model.EmployeeSettings{
		ClassBounds: map[model.ShiftClass]model.ClassBound{
			model.ClassNight: {Min: 3, Max: 1},
		},
	}
	if err := CheckSettings(emp); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("类别区间非法应报错, 实际 %v", err)
	}
}

// TestCheckStateConflict 指定与不可用冲突
func TestCheckStateConflict(t *testing.T) {
	emp := activeEmployee("王五")
	shiftID := uuid.New()

	st := &model.EmployeeState{
		EmployeeID:  emp.ID,
		Forced:      []model.Slot{{Day: 1, ShiftID: shiftID}},
		Unavailable: []model.Slot{{Day: 1, ShiftID: shiftID}},
	}
	if err := CheckState(emp, st); !errors.Is(err, errors.CodeForcedConflict) {
		t.Errorf("冲突槽位应报指定冲突错误, 实际 %v", err)
	}

	st = &model.EmployeeState{EmployeeID: emp.ID, Streak: -1}
	if err := CheckState(emp, st); !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("负连续天数应报配置错误, 实际 %v", err)
	}
}
