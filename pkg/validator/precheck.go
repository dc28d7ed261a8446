// Package validator 提供求解前的输入校验
// 这里拦截的都是致命配置错误：校验未通过时不会发起任何求解尝试
package validator

import (
	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/errors"
	"github.com/paiban/cpban/pkg/model"
)

// CheckProblemInput 校验一次排班运行的全部输入
// 返回第一个发现的配置错误
func CheckProblemInput(
	employees []*model.Employee,
	shifts []*model.ShiftDefinition,
	states map[uuid.UUID]*model.EmployeeState,
	weights *model.WorkplaceWeights,
) error {
	if len(employees) == 0 {
		return errors.ConfigInvalid("employees", "员工名单为空")
	}
	if len(shifts) == 0 {
		return errors.ConfigInvalid("shifts", "班次列表为空")
	}
	if weights == nil {
		return errors.ConfigInvalid("weights", "缺少权重配置")
	}

	if err := CheckWeights(weights); err != nil {
		return err
	}
	if err := CheckShifts(shifts); err != nil {
		return err
	}
	for _, emp := range employees {
		if err := CheckSettings(emp); err != nil {
			return err
		}
		if st, ok := states[emp.ID]; ok && st != nil {
			if err := CheckState(emp, st); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckWeights 校验权重非负
func CheckWeights(w *model.WorkplaceWeights) error {
	var bad error
	w.Each(func(name string, value int) {
		if value < 0 && bad == nil {
			bad = errors.InvalidWeights(name, value)
		}
	})
	return bad
}

// CheckShifts 校验班次定义
func CheckShifts(shifts []*model.ShiftDefinition) error {
	for _, s := range shifts {
		if s.RequiredStaff < 0 {
			return errors.ConfigInvalid("required_staff", "班次 "+s.Name+" 的需求人数不能为负")
		}
		if s.Class != "" && !s.Class.Valid() {
			return errors.ConfigInvalid("class", "班次 "+s.Name+" 的类别未知: "+string(s.Class))
		}
	}
	return nil
}

// CheckSettings 校验员工合同设置的区间约束
func CheckSettings(emp *model.Employee) error {
	set := emp.Settings
	if set == nil {
		return nil
	}
	if set.MinShiftsPerWeek < 0 {
		return errors.ConfigInvalid("min_shifts_per_week", "员工 "+emp.Name+" 的下界为负")
	}
	if set.MaxShiftsPerWeek > 0 && set.MinShiftsPerWeek > set.MaxShiftsPerWeek {
		return errors.ConfigInvalid("min_shifts_per_week", "员工 "+emp.Name+" 的下界大于上界")
	}
	for class, b := range set.ClassBounds {
		if b.Min < 0 || b.Max < 0 || b.Min > b.Max {
			return errors.ConfigInvalid("class_bounds", "员工 "+emp.Name+" 的 "+string(class)+" 区间非法")
		}
	}
	return nil
}

// CheckState 校验遗留状态
// 指定出勤与不可用同时出现视为致命输入错误
func CheckState(emp *model.Employee, st *model.EmployeeState) error {
	if st.Streak < 0 {
		return errors.ConfigInvalid("streak", "员工 "+emp.Name+" 的连续工作天数为负")
	}
	if conflicts := st.ConflictingSlots(); len(conflicts) > 0 {
		c := conflicts[0]
		return errors.ForcedConflict(emp.Name, c.Day, c.ShiftID.String())
	}
	return nil
}
