// Package compiler 将排班问题编译为约束模型并解码求解结果
package compiler

import (
	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/cp"
	"github.com/paiban/cpban/pkg/model"
)

// decode 把变量赋值解码为排班记录
// 仅对置 1 的变量生成记录，顺序固定为 (天, 班次, 员工插入顺序)
func decode(sol *cp.Solution, s *VarSpace, p *Problem) []*model.Assignment {
	var out []*model.Assignment
	for d := 0; d < s.Days(); d++ {
		for si, shift := range s.shifts {
			for ei, emp := range p.Employees {
				if !sol.BoolValue(s.Var(ei, d, si)) {
					continue
				}
				out = append(out, &model.Assignment{
					BaseModel:    model.NewBaseModel(),
					WorkplaceID:  p.WorkplaceID,
					EmployeeID:   emp.ID,
					EmployeeName: emp.Name,
					ShiftID:      shift.ID,
					ShiftName:    shift.Name,
					ShiftClass:   shift.Class,
					Day:          d,
				})
			}
		}
	}
	return out
}

// NextStates 由本周期排班推导下一周期的遗留状态
// 仅对在岗员工生成；不可用与指定槽位只属于本周期，不向后携带
func NextStates(p *Problem, assignments []*model.Assignment) map[uuid.UUID]*model.EmployeeState {
	days := p.CycleDays()

	worked := make(map[uuid.UUID]map[int]bool)
	nights := make(map[uuid.UUID]map[int]bool)
	noons := make(map[uuid.UUID]map[int]bool)
	mark := func(m map[uuid.UUID]map[int]bool, id uuid.UUID, day int) {
		if m[id] == nil {
			m[id] = make(map[int]bool)
		}
		m[id][day] = true
	}
	for _, a := range assignments {
		mark(worked, a.EmployeeID, a.Day)
		switch a.ShiftClass {
		case model.ClassNight:
			mark(nights, a.EmployeeID, a.Day)
		case model.ClassAfternoon:
			mark(noons, a.EmployeeID, a.Day)
		}
	}

	out := make(map[uuid.UUID]*model.EmployeeState, len(p.Employees))
	for _, emp := range p.Employees {
		if !emp.IsActive() {
			continue
		}
		st := &model.EmployeeState{
			EmployeeID:      emp.ID,
			WorkedLastNoon:  noons[emp.ID][days-1],
			WorkedLastNight: nights[emp.ID][days-1],
		}
		if days >= 2 {
			st.WorkedPriorNight = nights[emp.ID][days-2]
		}

		streak := 0
		for d := days - 1; d >= 0 && worked[emp.ID][d]; d-- {
			streak++
		}
		// 整周无休时连班跨越周期边界继续累加
		if streak == days {
			streak += p.StateOf(emp.ID).Streak
		}
		st.Streak = streak
		out[emp.ID] = st
	}
	return out
}
