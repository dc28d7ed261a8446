// Package compiler 将排班问题编译为约束模型并解码求解结果
package compiler

import (
	"fmt"

	"github.com/paiban/cpban/pkg/cp"
	"github.com/paiban/cpban/pkg/model"
)

// emitHardConstraints 生成全部硬约束
// 任何硬约束冲突使实例不可行；编译器不做自动放松，由调用方调整输入后重试
func emitHardConstraints(m *cp.Model, s *VarSpace, p *Problem) {
	days := s.Days()

	// 覆盖约束：每个 (天, 班次) 在职员工的出勤数精确等于需求人数
	for d := 0; d < days; d++ {
		for si, shift := range s.shifts {
			expr := cp.Sum()
			for ei, emp := range p.Employees {
				if emp.IsActive() {
					expr.AddVar(s.Var(ei, d, si))
				}
			}
			m.AddLinear(expr, cp.OpEq, shift.RequiredStaff)
		}
	}

	mornings := s.ClassIndexes(model.ClassMorning)

	for ei, emp := range p.Employees {
		// 非在职员工：全部变量强制置 0
		if !emp.IsActive() {
			for d := 0; d < days; d++ {
				for si := range s.shifts {
					m.AddLinear(cp.Sum().AddVar(s.Var(ei, d, si)), cp.OpEq, 0)
				}
			}
			continue
		}

		st := p.StateOf(emp.ID)

		// 禁止连班：拉平时间线上相邻两个槽位最多出勤一个
		for slot := 0; slot < s.FlatLen()-1; slot++ {
			expr := cp.Sum().AddVars(s.FlatVar(ei, slot), s.FlatVar(ei, slot+1))
			m.AddLinear(expr, cp.OpLe, 1)
		}

		// 显式不可用槽位
		for _, sl := range st.Unavailable {
			if si, ok := s.ShiftIndexOf(sl.ShiftID); ok && sl.Day >= 0 && sl.Day < days {
				m.AddLinear(cp.Sum().AddVar(s.Var(ei, sl.Day, si)), cp.OpEq, 0)
			}
		}

		// 跨周期休息：上一周期最后一晚上了夜班，则首日早班强制休息
		if st.WorkedLastNight {
			for _, si := range mornings {
				m.AddLinear(cp.Sum().AddVar(s.Var(ei, 0, si)), cp.OpEq, 0)
			}
		}

		// 指定出勤槽位（与不可用列表的冲突已在求解前校验）
		for _, sl := range st.Forced {
			if si, ok := s.ShiftIndexOf(sl.ShiftID); ok && sl.Day >= 0 && sl.Day < days {
				m.AddLinear(cp.Sum().AddVar(s.Var(ei, sl.Day, si)), cp.OpEq, 1)
			}
		}

		// 连续工作天数上限
		// rest[d] 为真当且仅当员工当天没有任何班次
		rest := make([]*cp.Var, days)
		for d := 0; d < days; d++ {
			lits := make([]cp.Literal, 0, len(s.shifts))
			for si := range s.shifts {
				lits = append(lits, s.Var(ei, d, si).Not())
			}
			rest[d] = m.ReifyConjunction(fmt.Sprintf("rest_e%d_d%d", ei, d), lits...)
		}
		if st.Streak > 0 {
			// 带入连续工作 streak 天，法定上限 7 天之前必须出现休息日
			limit := model.CycleDays - st.Streak
			if limit < 1 {
				limit = 1
			}
			if limit <= days {
				expr := cp.Sum().AddVars(rest[:limit]...)
				m.AddLinear(expr, cp.OpGe, 1)
			}
		} else {
			// 周期内至少一个休息日
			m.AddLinear(cp.Sum().AddVars(rest...), cp.OpGe, 1)
		}

		// 每天最多一个班次
		for d := 0; d < days; d++ {
			m.AddLinear(cp.Sum().AddVars(s.DayVars(ei, d)...), cp.OpLe, 1)
		}

		// 合同区间：周期内总班次数
		if set := emp.Settings; set != nil {
			all := s.AllVars(ei)
			if set.MaxShiftsPerWeek > 0 {
				m.AddLinear(cp.Sum().AddVars(all...), cp.OpLe, set.MaxShiftsPerWeek)
			}
			if set.MinShiftsPerWeek > 0 {
				m.AddLinear(cp.Sum().AddVars(all...), cp.OpGe, set.MinShiftsPerWeek)
			}
		}
	}
}
