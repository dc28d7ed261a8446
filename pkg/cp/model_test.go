package cp

import (
	"context"
	"testing"
	"time"
)

// TestLinearExprLiterals 负文字按 1-x 展开
func TestLinearExprLiterals(t *testing.T) {
	m := NewModel("literals")
	x := m.NewBoolVar("x")

	// (1 - x) == 1 等价于 x == 0
	m.AddLinear(Sum().AddLiteral(x.Not(), 1), OpEq, 1)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(x) != 0 {
		t.Errorf("x 应为 0, 实际 %d", sol.Value(x))
	}
}

// TestLinearExprZeroCoef 零系数项被丢弃
func TestLinearExprZeroCoef(t *testing.T) {
	m := NewModel("zero_coef")
	x := m.NewBoolVar("x")

	expr := Sum().AddTerm(x, 0)
	if !expr.IsEmpty() {
		t.Error("零系数项不应进入表达式")
	}
}

// TestStrictLessThan 严格小于归一化为 <= bound-1
func TestStrictLessThan(t *testing.T) {
	m := NewModel("strict_lt")
	x := m.NewIntVar(0, 10, "x")

	m.AddLinear(Sum().AddVar(x), OpLt, 5)
	m.AddLinear(Sum().AddVar(x), OpGe, 4)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(x) != 4 {
		t.Errorf("x 应为 4, 实际 %d", sol.Value(x))
	}
}

// TestNewIntVarInvalidRange 区间非法必须panic
func TestNewIntVarInvalidRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("区间非法应触发panic")
		}
	}()
	m := NewModel("bad_range")
	m.NewIntVar(3, 1, "bad")
}

// TestReifyConjunctionEmpty 空文字列表必须panic
func TestReifyConjunctionEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("空合取应触发panic")
		}
	}()
	m := NewModel("empty_reify")
	m.ReifyConjunction("b")
}

// TestReifyConjunctionNonBool 非布尔变量的文字必须panic
func TestReifyConjunctionNonBool(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("非布尔文字应触发panic")
		}
	}()
	m := NewModel("non_bool_reify")
	x := m.NewIntVar(0, 5, "x")
	m.ReifyConjunction("b", x.Lit())
}

// TestModelCounts 变量与约束计数
func TestModelCounts(t *testing.T) {
	m := NewModel("counts")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	m.AddLinear(Sum().AddVars(x, y), OpLe, 1)
	m.ReifyConjunction("b", x.Lit(), y.Lit())

	// 具体化合取会额外引入指示变量
	if m.VarCount() != 3 {
		t.Errorf("变量数应为 3, 实际 %d", m.VarCount())
	}
	// 等式会拆成两条 <=；这里一条 <= 加一条具体化
	if m.ConstraintCount() != 2 {
		t.Errorf("约束数应为 2, 实际 %d", m.ConstraintCount())
	}
}

// TestLiteralNegated 文字取反
func TestLiteralNegated(t *testing.T) {
	m := NewModel("negated")
	x := m.NewBoolVar("x")

	lit := x.Lit()
	if lit.Negated() != x.Not() {
		t.Error("正文字取反应等于负文字")
	}
	if lit.Negated().Negated() != lit {
		t.Error("两次取反应回到原文字")
	}
}
