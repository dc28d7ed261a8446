// Package compiler 将排班问题编译为约束模型并解码求解结果
package compiler

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/cp"
	"github.com/paiban/cpban/pkg/errors"
	"github.com/paiban/cpban/pkg/model"
)

// VarSpace 决策变量空间
// 每个 (员工, 天, 班次类别) 三元组恰好对应一个布尔变量，无别名
type VarSpace struct {
	days   int
	shifts []*model.ShiftDefinition

	vars [][][]*cp.Var // [员工序号][天][班次序号]

	empIndex   map[uuid.UUID]int
	shiftIndex map[uuid.UUID]int
}

// BuildVarSpace 为整个周期分配决策变量
// 仅在员工名单或班次列表为空时失败
func BuildVarSpace(m *cp.Model, employees []*model.Employee, shifts []*model.ShiftDefinition, days int) (*VarSpace, error) {
	if len(employees) == 0 {
		return nil, errors.ConfigInvalid("employees", "员工名单为空")
	}
	if len(shifts) == 0 {
		return nil, errors.ConfigInvalid("shifts", "班次列表为空")
	}

	s := &VarSpace{
		days:       days,
		shifts:     shifts,
		vars:       make([][][]*cp.Var, len(employees)),
		empIndex:   make(map[uuid.UUID]int, len(employees)),
		shiftIndex: make(map[uuid.UUID]int, len(shifts)),
	}
	for si, shift := range shifts {
		s.shiftIndex[shift.ID] = si
	}
	for ei, emp := range employees {
		s.empIndex[emp.ID] = ei
		s.vars[ei] = make([][]*cp.Var, days)
		for d := 0; d < days; d++ {
			s.vars[ei][d] = make([]*cp.Var, len(shifts))
			for si := range shifts {
				s.vars[ei][d][si] = m.NewBoolVar(fmt.Sprintf("shift_e%d_d%d_s%d", ei, d, si))
			}
		}
	}
	return s, nil
}

// Days 返回周期天数
func (s *VarSpace) Days() int {
	return s.days
}

// ShiftCount 返回每天的班次数
func (s *VarSpace) ShiftCount() int {
	return len(s.shifts)
}

// Var 按序号取变量
func (s *VarSpace) Var(emp, day, shift int) *cp.Var {
	return s.vars[emp][day][shift]
}

// DayVars 返回员工某天的全部班次变量
func (s *VarSpace) DayVars(emp, day int) []*cp.Var {
	return s.vars[emp][day]
}

// ShiftIndexOf 按班次 ID 取序号
func (s *VarSpace) ShiftIndexOf(id uuid.UUID) (int, bool) {
	i, ok := s.shiftIndex[id]
	return i, ok
}

// ClassIndexes 返回指定类别的班次序号
func (s *VarSpace) ClassIndexes(class model.ShiftClass) []int {
	var out []int
	for i, sh := range s.shifts {
		if sh.Class == class {
			out = append(out, i)
		}
	}
	return out
}

// FlatVar 按员工拉平后的时间线序号取变量
// 时间线顺序：一天内按班次顺序递增，然后进入下一天
func (s *VarSpace) FlatVar(emp, slot int) *cp.Var {
	return s.vars[emp][slot/len(s.shifts)][slot%len(s.shifts)]
}

// FlatLen 返回拉平时间线的长度
func (s *VarSpace) FlatLen() int {
	return s.days * len(s.shifts)
}

// AllVars 返回员工在周期内的全部变量
func (s *VarSpace) AllVars(emp int) []*cp.Var {
	out := make([]*cp.Var, 0, s.FlatLen())
	for d := 0; d < s.days; d++ {
		out = append(out, s.vars[emp][d]...)
	}
	return out
}
