// Package compiler 将排班问题编译为约束模型并解码求解结果
package compiler

import (
	"fmt"

	"github.com/paiban/cpban/pkg/cp"
	"github.com/paiban/cpban/pkg/model"
)

// emitObjective 生成全部软约束并返回加权目标
// 软约束从不直接禁止某种排法，只通过偏差变量抬高其代价
// 权重为 0 的类别不生成任何辅助变量（不影响目标值）
func emitObjective(m *cp.Model, s *VarSpace, p *Problem) *cp.LinearExpr {
	obj := cp.Sum()
	w := p.Weights
	days := s.Days()

	for ei, emp := range p.Employees {
		if !emp.IsActive() {
			continue
		}
		st := p.StateOf(emp.ID)
		set := emp.Settings

		// 按类别的偏好区间
		if set != nil && (w.ClassExcess > 0 || w.ClassShortage > 0) {
			for _, class := range []model.ShiftClass{model.ClassMorning, model.ClassAfternoon, model.ClassNight} {
				bound, ok := set.BoundFor(class)
				if !ok {
					continue
				}
				idxs := s.ClassIndexes(class)
				if len(idxs) == 0 {
					continue
				}
				classVars := make([]*cp.Var, 0, days*len(idxs))
				for d := 0; d < days; d++ {
					for _, si := range idxs {
						classVars = append(classVars, s.Var(ei, d, si))
					}
				}

				if w.ClassExcess > 0 {
					// sum(class) <= max + excess
					excess := m.NewIntVar(0, len(classVars), fmt.Sprintf("excess_%s_e%d", class, ei))
					expr := cp.Sum().AddVars(classVars...).AddTerm(excess, -1)
					m.AddLinear(expr, cp.OpLe, bound.Max)
					obj.AddTerm(excess, w.ClassExcess)
				}
				if w.ClassShortage > 0 {
					// sum(class) + shortage >= min
					shortage := m.NewIntVar(0, days, fmt.Sprintf("shortage_%s_e%d", class, ei))
					expr := cp.Sum().AddVars(classVars...).AddTerm(shortage, 1)
					m.AddLinear(expr, cp.OpGe, bound.Min)
					obj.AddTerm(shortage, w.ClassShortage)
				}
			}
		}

		// 目标班次数公平性：双边绝对值线性化
		if set != nil && w.Fairness > 0 {
			target := set.ResolveTarget()
			all := s.AllVars(ei)
			delta := m.NewIntVar(0, s.FlatLen(), fmt.Sprintf("delta_target_e%d", ei))
			m.AddLinear(cp.Sum().AddVars(all...).AddTerm(delta, -1), cp.OpLe, target)
			m.AddLinear(cp.Sum().AddVars(all...).AddTerm(delta, 1), cp.OpGe, target)
			obj.AddTerm(delta, w.Fairness)
		}

		// 三连夜班
		if w.ConsecutiveNights > 0 {
			nightLit, hasNight := nightLiteral(m, s, ei)
			if hasNight {
				// 周期内的滑动窗口
				for d := 0; d+2 < days; d++ {
					ind := m.ReifyConjunction(fmt.Sprintf("nights3_e%d_d%d", ei, d),
						nightLit(d), nightLit(d+1), nightLit(d+2))
					obj.AddTerm(ind, w.ConsecutiveNights)
				}

				// 跨周期衔接：两种情况互斥，完全由遗留状态决定
				switch {
				case st.WorkedLastNight && st.WorkedPriorNight:
					// 已连上两晚，首日夜班即构成第三晚
					obj.AddLiteral(nightLit(0), w.ConsecutiveNights)
				case st.WorkedLastNight && days >= 2:
					// 只连上最后一晚，首两日连续夜班构成三连
					ind := m.ReifyConjunction(fmt.Sprintf("nights3_cont_e%d", ei),
						nightLit(0), nightLit(1))
					obj.AddTerm(ind, w.ConsecutiveNights)
				}
			}
		}

		// 休息间隔：时间线上相隔两个槽位都出勤，视为休息不足
		if w.RestGap > 0 {
			for slot := 0; slot+2 < s.FlatLen(); slot++ {
				ind := m.ReifyConjunction(fmt.Sprintf("gap_e%d_t%d", ei, slot),
					s.FlatVar(ei, slot).Lit(), s.FlatVar(ei, slot+2).Lit())
				obj.AddTerm(ind, w.RestGap)
			}

			// 跨周期衔接：按上一周期最后一天的出勤直接惩罚首日的头两个班次
			if st.WorkedLastNoon {
				obj.AddTerm(s.Var(ei, 0, 0), w.RestGap)
			}
			if st.WorkedLastNight && s.ShiftCount() > 1 {
				obj.AddTerm(s.Var(ei, 0, 1), w.RestGap)
			}
		}
	}

	return obj
}

// nightLiteral 返回“第 d 天上了夜班”的文字构造函数
// 一天只有一个夜班定义时直接使用该变量；多个时引入每日辅助指示变量
func nightLiteral(m *cp.Model, s *VarSpace, ei int) (func(d int) cp.Literal, bool) {
	nights := s.ClassIndexes(model.ClassNight)
	if len(nights) == 0 {
		return nil, false
	}
	if len(nights) == 1 {
		si := nights[0]
		return func(d int) cp.Literal {
			return s.Var(ei, d, si).Lit()
		}, true
	}

	// noNight[d] 为真当且仅当当天没有任何夜班
	noNight := make([]*cp.Var, s.Days())
	for d := 0; d < s.Days(); d++ {
		lits := make([]cp.Literal, 0, len(nights))
		for _, si := range nights {
			lits = append(lits, s.Var(ei, d, si).Not())
		}
		noNight[d] = m.ReifyConjunction(fmt.Sprintf("no_night_e%d_d%d", ei, d), lits...)
	}
	return func(d int) cp.Literal {
		return noNight[d].Not()
	}, true
}
