// Package cp 提供布尔/整数约束建模与求解后端
package cp

import (
	"context"
	"math"
	"time"
)

// Status 求解状态
type Status int

const (
	StatusUnknown    Status = iota // 时间耗尽且没有任何解
	StatusOptimal                  // 搜索空间穷尽，当前解已证明最优
	StatusFeasible                 // 时间耗尽，返回已知最好的可行解
	StatusInfeasible               // 搜索空间穷尽且无解
)

// String 返回状态描述
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solution 求解结果
type Solution struct {
	status    Status
	values    []int
	objective int
}

// Status 返回求解状态
func (s *Solution) Status() Status {
	return s.status
}

// HasSolution 检查是否携带可用的变量赋值
func (s *Solution) HasSolution() bool {
	return s.status == StatusOptimal || s.status == StatusFeasible
}

// Objective 返回目标值（总惩罚）
func (s *Solution) Objective() int {
	return s.objective
}

// Value 返回整数变量取值
func (s *Solution) Value(v *Var) int {
	return s.values[v.id]
}

// BoolValue 返回布尔变量取值
func (s *Solution) BoolValue(v *Var) bool {
	return s.values[v.id] == 1
}

// 搜索过程中每隔多少节点检查一次截止时间
const deadlineCheckInterval = 256

// saved 回溯轨迹条目
type saved struct {
	id int
	lo int
	hi int
}

type searcher struct {
	m   *Model
	min []int
	max []int

	trail []saved

	objTerms []term
	objConst int
	objCap   int // 目标上界，随着更好的解收紧

	best    []int
	bestObj int
	found   bool

	ctx      context.Context
	deadline time.Time
	nodes    int
	stopped  bool
}

// Solve 求解模型
// timeLimit 为搜索时间上限；超时后返回当前已找到的最好可行解（若有）
// 唯一可能长时间阻塞的调用，求解器在调用期间独占内部状态
func (m *Model) Solve(ctx context.Context, timeLimit time.Duration) *Solution {
	s := &searcher{
		m:        m,
		min:      make([]int, len(m.vars)),
		max:      make([]int, len(m.vars)),
		objCap:   math.MaxInt / 2,
		ctx:      ctx,
		deadline: time.Now().Add(timeLimit),
	}
	for i, v := range m.vars {
		s.min[i] = v.lo
		s.max[i] = v.hi
	}
	if m.hasObjective {
		s.objTerms = m.objective.terms
		s.objConst = m.objective.constant
	}

	if s.propagate() {
		s.search()
	}

	sol := &Solution{}
	switch {
	case s.stopped && s.found:
		sol.status = StatusFeasible
	case s.stopped:
		sol.status = StatusUnknown
	case s.found:
		sol.status = StatusOptimal
	default:
		sol.status = StatusInfeasible
	}
	if s.found {
		sol.values = s.best
		sol.objective = s.bestObj
	}
	return sol
}

// setMin 收紧变量下界，返回域是否仍然非空
func (s *searcher) setMin(id, lo int) bool {
	if lo <= s.min[id] {
		return true
	}
	s.trail = append(s.trail, saved{id: id, lo: s.min[id], hi: s.max[id]})
	s.min[id] = lo
	return lo <= s.max[id]
}

// setMax 收紧变量上界，返回域是否仍然非空
func (s *searcher) setMax(id, hi int) bool {
	if hi >= s.max[id] {
		return true
	}
	s.trail = append(s.trail, saved{id: id, lo: s.min[id], hi: s.max[id]})
	s.max[id] = hi
	return hi >= s.min[id]
}

// undoTo 回溯到指定的轨迹长度
func (s *searcher) undoTo(mark int) {
	for len(s.trail) > mark {
		e := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.min[e.id] = e.lo
		s.max[e.id] = e.hi
	}
}

// litFixedTrue 文字是否已固定为真
func (s *searcher) litFixedTrue(l Literal) bool {
	if l.Neg {
		return s.max[l.Var.id] == 0
	}
	return s.min[l.Var.id] == 1
}

// litFixedFalse 文字是否已固定为假
func (s *searcher) litFixedFalse(l Literal) bool {
	if l.Neg {
		return s.min[l.Var.id] == 1
	}
	return s.max[l.Var.id] == 0
}

// forceLit 将文字固定为给定真值
func (s *searcher) forceLit(l Literal, value bool) bool {
	if l.Neg {
		value = !value
	}
	if value {
		return s.setMin(l.Var.id, 1)
	}
	return s.setMax(l.Var.id, 0)
}

// propagate 约束传播：对所有约束做界一致性收紧直到不动点
// 返回 false 表示当前分支冲突
func (s *searcher) propagate() bool {
	for {
		before := len(s.trail)

		for i := range s.m.cons {
			c := &s.m.cons[i]
			if !s.propagateLe(c.terms, c.bound) {
				return false
			}
		}

		// 目标上界作为一条隐含的线性约束参与传播，实现分支限界
		if len(s.objTerms) > 0 && s.objCap < math.MaxInt/2 {
			if !s.propagateLe(s.objTerms, s.objCap-s.objConst) {
				return false
			}
		} else if s.objCap < math.MaxInt/2 && s.objConst > s.objCap {
			// 目标为常数且已不可能更优
			return false
		}

		for i := range s.m.reif {
			if !s.propagateReified(&s.m.reif[i]) {
				return false
			}
		}

		if len(s.trail) == before {
			return true
		}
	}
}

// propagateLe 传播 sum(terms) <= bound
func (s *searcher) propagateLe(terms []term, bound int) bool {
	lb := 0
	for _, t := range terms {
		if t.coef > 0 {
			lb += t.coef * s.min[t.v.id]
		} else {
			lb += t.coef * s.max[t.v.id]
		}
	}
	if lb > bound {
		return false
	}
	slack := bound - lb
	for _, t := range terms {
		if t.coef > 0 {
			hi := s.min[t.v.id] + slack/t.coef
			if !s.setMax(t.v.id, hi) {
				return false
			}
		} else {
			lo := s.max[t.v.id] - slack/(-t.coef)
			if !s.setMin(t.v.id, lo) {
				return false
			}
		}
	}
	return true
}

// propagateReified 传播具体化合取的两个方向
func (s *searcher) propagateReified(r *reified) bool {
	bID := r.indicator.id

	// indicator 为真：所有文字必须为真
	if s.min[bID] == 1 {
		for _, l := range r.literals {
			if !s.forceLit(l, true) {
				return false
			}
		}
		return true
	}

	// indicator 为假：至少一个文字为假
	if s.max[bID] == 0 {
		unfixed := -1
		allTrue := true
		for i, l := range r.literals {
			if s.litFixedFalse(l) {
				return true
			}
			if !s.litFixedTrue(l) {
				allTrue = false
				if unfixed == -1 {
					unfixed = i
				} else {
					unfixed = -2 // 多于一个未定文字，暂不传播
				}
			}
		}
		if allTrue {
			return false
		}
		if unfixed >= 0 {
			return s.forceLit(r.literals[unfixed], false)
		}
		return true
	}

	// indicator 未定：由文字推断
	allTrue := true
	for _, l := range r.literals {
		if s.litFixedFalse(l) {
			return s.setMax(bID, 0)
		}
		if !s.litFixedTrue(l) {
			allTrue = false
		}
	}
	if allTrue {
		return s.setMin(bID, 1)
	}
	return true
}

// search 深度优先搜索，按变量创建顺序分支，小值优先
func (s *searcher) search() {
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 {
		if time.Now().After(s.deadline) || s.ctx.Err() != nil {
			s.stopped = true
		}
	}
	if s.stopped {
		return
	}

	branch := -1
	for i := range s.min {
		if s.min[i] < s.max[i] {
			branch = i
			break
		}
	}

	// 所有变量已固定：记录新的最好解并收紧目标上界
	if branch == -1 {
		obj := s.objConst
		for _, t := range s.objTerms {
			obj += t.coef * s.min[t.v.id]
		}
		if !s.found || obj < s.bestObj {
			s.best = make([]int, len(s.min))
			copy(s.best, s.min)
			s.bestObj = obj
			s.found = true
			s.objCap = obj - 1
		}
		return
	}

	lo := s.min[branch]
	mark := len(s.trail)

	// 左分支：取下界值
	if s.setMax(branch, lo) && s.propagate() {
		s.search()
	}
	s.undoTo(mark)
	if s.stopped {
		return
	}

	// 右分支：排除下界值
	if s.setMin(branch, lo+1) && s.propagate() {
		s.search()
	}
	s.undoTo(mark)
}
