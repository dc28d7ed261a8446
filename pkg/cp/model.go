// Package cp 提供布尔/整数约束建模与求解后端
// 编译器只依赖本包的建模接口，任何满足同样语义的后端都可以替换
package cp

import (
	"fmt"
)

// Var 决策变量
// 布尔变量即取值域为 [0,1] 的整数变量
type Var struct {
	id   int
	lo   int
	hi   int
	name string
}

// Name 返回变量名称
func (v *Var) Name() string {
	return v.name
}

// Lit 返回变量的正文字
func (v *Var) Lit() Literal {
	return Literal{Var: v}
}

// Not 返回变量的负文字
func (v *Var) Not() Literal {
	return Literal{Var: v, Neg: true}
}

// Literal 布尔文字（变量或其否定）
type Literal struct {
	Var *Var
	Neg bool
}

// Negated 返回相反的文字
func (l Literal) Negated() Literal {
	return Literal{Var: l.Var, Neg: !l.Neg}
}

// Op 线性约束比较符
type Op int

const (
	OpEq Op = iota // ==
	OpLe           // <=
	OpGe           // >=
	OpLt           // <
)

// linear 归一化后的线性约束：sum(terms) <= bound
type linear struct {
	terms []term
	bound int
}

// reified 具体化合取：indicator == 1 当且仅当所有文字为真
// 单个原语同时固定两个方向（b -> AND 与 !b -> 至少一个否定）
type reified struct {
	indicator *Var
	literals  []Literal
}

// Model 约束模型
// 一次求解构建一个模型，求解后即丢弃，不跨请求复用
type Model struct {
	name string
	vars []*Var
	cons []linear
	reif []reified

	objective    *LinearExpr
	hasObjective bool
}

// NewModel 创建约束模型
func NewModel(name string) *Model {
	return &Model{name: name}
}

// NewBoolVar 创建布尔变量
func (m *Model) NewBoolVar(name string) *Var {
	return m.NewIntVar(0, 1, name)
}

// NewIntVar 创建有界整数变量
// 区间非法属于编译器自身的编程错误，直接 panic
func (m *Model) NewIntVar(lo, hi int, name string) *Var {
	if lo > hi {
		panic(fmt.Sprintf("cp: 变量 %s 区间非法 [%d,%d]", name, lo, hi))
	}
	v := &Var{id: len(m.vars), lo: lo, hi: hi, name: name}
	m.vars = append(m.vars, v)
	return v
}

// AddLinear 添加线性约束 expr op bound
// 内部统一归一化为 <= 形式
func (m *Model) AddLinear(expr *LinearExpr, op Op, bound int) {
	switch op {
	case OpLe:
		m.addLe(expr.terms, bound-expr.constant)
	case OpLt:
		m.addLe(expr.terms, bound-1-expr.constant)
	case OpGe:
		m.addLe(negateTerms(expr.terms), expr.constant-bound)
	case OpEq:
		m.addLe(expr.terms, bound-expr.constant)
		m.addLe(negateTerms(expr.terms), expr.constant-bound)
	default:
		panic(fmt.Sprintf("cp: 未知比较符 %d", op))
	}
}

func (m *Model) addLe(terms []term, bound int) {
	for _, t := range terms {
		if t.v == nil {
			panic("cp: 线性约束引用了空变量")
		}
	}
	cp := make([]term, len(terms))
	copy(cp, terms)
	m.cons = append(m.cons, linear{terms: cp, bound: bound})
}

// ReifyConjunction 创建具体化合取指示变量
// 返回的布尔变量为真当且仅当所有文字为真，两个蕴含方向都被固定
func (m *Model) ReifyConjunction(name string, lits ...Literal) *Var {
	if len(lits) == 0 {
		panic("cp: 具体化合取缺少文字")
	}
	for _, l := range lits {
		if l.Var == nil {
			panic("cp: 具体化合取引用了空变量")
		}
		if l.Var.lo < 0 || l.Var.hi > 1 {
			panic(fmt.Sprintf("cp: 文字 %s 不是布尔变量", l.Var.name))
		}
	}
	b := m.NewBoolVar(name)
	cp := make([]Literal, len(lits))
	copy(cp, lits)
	m.reif = append(m.reif, reified{indicator: b, literals: cp})
	return b
}

// Minimize 设置最小化目标
func (m *Model) Minimize(expr *LinearExpr) {
	m.objective = expr
	m.hasObjective = true
}

// VarCount 返回变量总数
func (m *Model) VarCount() int {
	return len(m.vars)
}

// ConstraintCount 返回约束总数
func (m *Model) ConstraintCount() int {
	return len(m.cons) + len(m.reif)
}
