// Package cp 提供布尔/整数约束建模与求解后端
package cp

// term 线性项 coef * var
type term struct {
	v    *Var
	coef int
}

// LinearExpr 线性表达式 sum(coef_i * var_i) + constant
type LinearExpr struct {
	terms    []term
	constant int
}

// Sum 创建空线性表达式
func Sum() *LinearExpr {
	return &LinearExpr{}
}

// AddTerm 添加带系数的项
func (e *LinearExpr) AddTerm(v *Var, coef int) *LinearExpr {
	if coef != 0 {
		e.terms = append(e.terms, term{v: v, coef: coef})
	}
	return e
}

// AddVar 添加系数为 1 的项
func (e *LinearExpr) AddVar(v *Var) *LinearExpr {
	return e.AddTerm(v, 1)
}

// AddVars 批量添加系数为 1 的项
func (e *LinearExpr) AddVars(vars ...*Var) *LinearExpr {
	for _, v := range vars {
		e.AddTerm(v, 1)
	}
	return e
}

// AddLiteral 添加文字：负文字按 (1 - var) 展开
func (e *LinearExpr) AddLiteral(l Literal, coef int) *LinearExpr {
	if l.Neg {
		e.constant += coef
		return e.AddTerm(l.Var, -coef)
	}
	return e.AddTerm(l.Var, coef)
}

// AddConstant 添加常数项
func (e *LinearExpr) AddConstant(c int) *LinearExpr {
	e.constant += c
	return e
}

// IsEmpty 检查表达式是否没有任何变量项
func (e *LinearExpr) IsEmpty() bool {
	return len(e.terms) == 0
}

// negateTerms 对每一项取负
func negateTerms(terms []term) []term {
	out := make([]term, len(terms))
	for i, t := range terms {
		out[i] = term{v: t.v, coef: -t.coef}
	}
	return out
}
