package cp

import (
	"context"
	"testing"
	"time"
)

// TestSolveMinimizeBoolSum 最小化布尔和
func TestSolveMinimizeBoolSum(t *testing.T) {
	m := NewModel("bool_sum")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	z := m.NewBoolVar("z")

	// 至少两个为真
	m.AddLinear(Sum().AddVars(x, y, z), OpGe, 2)
	m.Minimize(Sum().AddVars(x, y, z))

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Objective() != 2 {
		t.Errorf("目标值应为 2, 实际 %d", sol.Objective())
	}
	total := sol.Value(x) + sol.Value(y) + sol.Value(z)
	if total != 2 {
		t.Errorf("赋值的和应为 2, 实际 %d", total)
	}
}

// TestSolveIntVarWeighted 带权整数目标
func TestSolveIntVarWeighted(t *testing.T) {
	m := NewModel("weighted")
	x := m.NewIntVar(0, 10, "x")
	y := m.NewIntVar(0, 10, "y")

	m.AddLinear(Sum().AddVars(x, y), OpGe, 7)
	m.Minimize(Sum().AddTerm(x, 2).AddTerm(y, 1))

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	// x 的代价更高，最优解应把需求全部压给 y
	if sol.Objective() != 7 {
		t.Errorf("目标值应为 7, 实际 %d", sol.Objective())
	}
	if sol.Value(x) != 0 || sol.Value(y) != 7 {
		t.Errorf("最优赋值应为 x=0, y=7, 实际 x=%d, y=%d", sol.Value(x), sol.Value(y))
	}
}

// TestSolveEquality 等式约束
func TestSolveEquality(t *testing.T) {
	m := NewModel("equality")
	x := m.NewIntVar(0, 5, "x")
	y := m.NewIntVar(0, 5, "y")

	m.AddLinear(Sum().AddVars(x, y), OpEq, 4)
	m.Minimize(Sum().AddVar(x))

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(x) != 0 || sol.Value(y) != 4 {
		t.Errorf("最优赋值应为 x=0, y=4, 实际 x=%d, y=%d", sol.Value(x), sol.Value(y))
	}
}

// TestSolveInfeasible 无解实例
func TestSolveInfeasible(t *testing.T) {
	m := NewModel("infeasible")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	m.AddLinear(Sum().AddVars(x, y), OpGe, 3)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusInfeasible {
		t.Fatalf("状态应为不可行, 实际 %v", sol.Status())
	}
	if sol.HasSolution() {
		t.Error("不可行结果不应携带赋值")
	}
}

// TestSolveNoObjective 无目标的满足性问题
func TestSolveNoObjective(t *testing.T) {
	m := NewModel("satisfy")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")

	m.AddLinear(Sum().AddVars(x, y), OpEq, 1)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(x)+sol.Value(y) != 1 {
		t.Errorf("赋值的和应为 1, 实际 %d", sol.Value(x)+sol.Value(y))
	}
}

// TestReifyConjunctionForward 指示变量为真时所有文字被固定
func TestReifyConjunctionForward(t *testing.T) {
	m := NewModel("reify_forward")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	b := m.ReifyConjunction("b", x.Lit(), y.Not())

	m.AddLinear(Sum().AddVar(b), OpEq, 1)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(x) != 1 || sol.Value(y) != 0 {
		t.Errorf("合取为真时应有 x=1, y=0, 实际 x=%d, y=%d", sol.Value(x), sol.Value(y))
	}
}

// TestReifyConjunctionBackward 文字取值决定指示变量
func TestReifyConjunctionBackward(t *testing.T) {
	m := NewModel("reify_backward")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	b := m.ReifyConjunction("b", x.Lit(), y.Lit())

	m.AddLinear(Sum().AddVar(x), OpEq, 1)
	m.AddLinear(Sum().AddVar(y), OpEq, 0)

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Value(b) != 0 {
		t.Errorf("有文字为假时指示变量应为 0, 实际 %d", sol.Value(b))
	}
}

// TestReifyConjunctionPenalty 指示变量进入目标后的代价权衡
func TestReifyConjunctionPenalty(t *testing.T) {
	m := NewModel("reify_penalty")
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	both := m.ReifyConjunction("both", x.Lit(), y.Lit())

	// x 与 y 都必须为真，目标只能接受 both 的惩罚
	m.AddLinear(Sum().AddVar(x), OpEq, 1)
	m.AddLinear(Sum().AddVar(y), OpEq, 1)
	m.Minimize(Sum().AddTerm(both, 5))

	sol := m.Solve(context.Background(), time.Second)
	if sol.Status() != StatusOptimal {
		t.Fatalf("状态应为最优, 实际 %v", sol.Status())
	}
	if sol.Objective() != 5 {
		t.Errorf("目标值应为 5, 实际 %d", sol.Objective())
	}
}

// TestSolveCanceledBeforeFirstSolution 开始前已取消且未找到解
func TestSolveCanceledBeforeFirstSolution(t *testing.T) {
	m := NewModel("canceled")
	// 第一个叶子要 400 层深度才能抵达，截止检查先触发
	vars := make([]*Var, 400)
	for i := range vars {
		vars[i] = m.NewBoolVar("v")
	}
	m.Minimize(Sum().AddVars(vars...))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol := m.Solve(ctx, time.Minute)
	if sol.Status() != StatusUnknown {
		t.Fatalf("取消且无解时状态应为未知, 实际 %v", sol.Status())
	}
	if sol.HasSolution() {
		t.Error("未知结果不应携带赋值")
	}
}

// TestSolveCanceledAfterIncumbent 取消时返回已知最好的可行解
func TestSolveCanceledAfterIncumbent(t *testing.T) {
	m := NewModel("canceled_incumbent")
	// 第一个叶子在截止检查之前抵达，证明最优则需要更多搜索
	vars := make([]*Var, 200)
	for i := range vars {
		vars[i] = m.NewBoolVar("v")
	}
	obj := Sum()
	for _, v := range vars {
		obj.AddTerm(v, -1)
	}
	m.Minimize(obj)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol := m.Solve(ctx, time.Minute)
	if sol.Status() != StatusFeasible {
		t.Fatalf("取消且已有解时状态应为可行, 实际 %v", sol.Status())
	}
	if !sol.HasSolution() {
		t.Error("可行结果应携带赋值")
	}
}

// TestStatusString 状态描述
func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusOptimal:    "optimal",
		StatusFeasible:   "feasible",
		StatusInfeasible: "infeasible",
		StatusUnknown:    "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("状态 %d 描述应为 %s, 实际 %s", status, want, got)
		}
	}
}
