// Package compiler 将排班问题编译为约束模型并解码求解结果
// 编译器单线程、跨运行无状态：一次运行构建一个模型、发起一次阻塞求解、解码一个结果
package compiler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/cp"
	"github.com/paiban/cpban/pkg/logger"
	"github.com/paiban/cpban/pkg/model"
	"github.com/paiban/cpban/pkg/validator"
)

// DefaultTimeLimit 缺省求解时间上限
const DefaultTimeLimit = 30 * time.Second

// Problem 一次排班运行的全部输入
// 由数据提供方（仓储层或请求体）装配，编译期间只读
type Problem struct {
	WorkplaceID uuid.UUID                          `json:"workplace_id"`
	Employees   []*model.Employee                  `json:"employees"` // 插入顺序决定解码时的并列顺序
	Shifts      []*model.ShiftDefinition           `json:"shifts"`    // 按一天内的时间顺序排列
	States      map[uuid.UUID]*model.EmployeeState `json:"states,omitempty"`
	Weights     *model.WorkplaceWeights            `json:"weights"`
	Days        int                                `json:"days,omitempty"` // 0 表示取 model.CycleDays
}

// CycleDays 返回本次运行的周期天数
func (p *Problem) CycleDays() int {
	if p.Days > 0 {
		return p.Days
	}
	return model.CycleDays
}

// StateOf 返回员工的遗留状态，未提供时返回零值状态
func (p *Problem) StateOf(empID uuid.UUID) *model.EmployeeState {
	if st, ok := p.States[empID]; ok && st != nil {
		return st
	}
	return &model.EmployeeState{EmployeeID: empID}
}

// SortShifts 按 Position 排列班次定义
// 时间线展开（连班、休息间隔）依赖这一顺序
func (p *Problem) SortShifts() {
	sort.SliceStable(p.Shifts, func(i, j int) bool {
		return p.Shifts[i].Position < p.Shifts[j].Position
	})
}

// Result 一次运行的输出
type Result struct {
	Status      model.SolveStatus   `json:"status"`
	Objective   int                 `json:"objective"` // 总惩罚值，仅在有解时有意义
	Assignments []*model.Assignment `json:"assignments,omitempty"`
	Duration    time.Duration       `json:"duration"`
	Vars        int                 `json:"model_vars"`
	Constraints int                 `json:"model_constraints"`
}

// Compiler 排班约束编译器
type Compiler struct {
	timeLimit time.Duration
	logger    *logger.SolverLogger
}

// New 创建编译器
func New() *Compiler {
	return &Compiler{
		timeLimit: DefaultTimeLimit,
		logger:    logger.NewSolverLogger(),
	}
}

// SetTimeLimit 设置求解时间上限
func (c *Compiler) SetTimeLimit(d time.Duration) {
	if d > 0 {
		c.timeLimit = d
	}
}

// Run 编译并求解一个排班问题
// 配置错误在任何求解尝试之前返回；不可行与超时作为结果状态返回
func (c *Compiler) Run(ctx context.Context, p *Problem) (*Result, error) {
	start := time.Now()

	if err := validator.CheckProblemInput(p.Employees, p.Shifts, p.States, p.Weights); err != nil {
		c.logger.ConfigRejected(p.WorkplaceID.String(), err)
		return nil, err
	}
	p.SortShifts()

	m := cp.NewModel("weekly_schedule")
	space, err := BuildVarSpace(m, p.Employees, p.Shifts, p.CycleDays())
	if err != nil {
		return nil, err
	}

	c.logger.StartSolve(p.WorkplaceID.String(), len(p.Employees), len(p.Shifts), p.CycleDays())

	emitHardConstraints(m, space, p)
	objective := emitObjective(m, space, p)
	m.Minimize(objective)

	sol := m.Solve(ctx, c.timeLimit)

	result := &Result{
		Status:      statusOf(sol.Status()),
		Duration:    time.Since(start),
		Vars:        m.VarCount(),
		Constraints: m.ConstraintCount(),
	}
	if sol.HasSolution() {
		result.Objective = sol.Objective()
		result.Assignments = decode(sol, space, p)
	}

	c.logger.SolveComplete(p.WorkplaceID.String(), string(result.Status), result.Duration, result.Objective, len(result.Assignments))
	return result, nil
}

// statusOf 引擎状态映射为结果状态
func statusOf(s cp.Status) model.SolveStatus {
	switch s {
	case cp.StatusOptimal:
		return model.StatusOptimal
	case cp.StatusFeasible:
		return model.StatusFeasible
	case cp.StatusInfeasible:
		return model.StatusInfeasible
	default:
		return model.StatusUnknown
	}
}
