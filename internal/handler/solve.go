// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paiban/cpban/internal/metrics"
	"github.com/paiban/cpban/internal/repository"
	"github.com/paiban/cpban/pkg/errors"
	"github.com/paiban/cpban/pkg/logger"
	"github.com/paiban/cpban/pkg/model"
	"github.com/paiban/cpban/pkg/scheduler/compiler"
)

// SolveHandler 排班求解处理器
type SolveHandler struct {
	compiler  *compiler.Compiler
	validate  *validator.Validate
	schedules *repository.ScheduleRepository
}

// NewSolveHandler 创建求解处理器
func NewSolveHandler(c *compiler.Compiler) *SolveHandler {
	return &SolveHandler{
		compiler: c,
		validate: validator.New(),
	}
}

// WithRepository 启用排班结果持久化
func (h *SolveHandler) WithRepository(r *repository.ScheduleRepository) *SolveHandler {
	h.schedules = r
	return h
}

// SolveRequest 排班求解请求
type SolveRequest struct {
	WorkplaceID string          `json:"workplace_id" validate:"required,uuid4"`
	CycleStart  string          `json:"cycle_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Days        int             `json:"days,omitempty" validate:"omitempty,min=1,max=31"`
	Timeout     int             `json:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
	Employees   []EmployeeInput `json:"employees" validate:"required,min=1,dive"`
	Shifts      []ShiftInput    `json:"shifts" validate:"required,min=1,dive"`
	States      []StateInput    `json:"states,omitempty" validate:"omitempty,dive"`
	Weights     *WeightsInput   `json:"weights" validate:"required"`
}

// EmployeeInput 员工输入
type EmployeeInput struct {
	ID       string         `json:"id" validate:"required,uuid4"`
	Name     string         `json:"name" validate:"required"`
	Status   string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive leave"`
	Settings *SettingsInput `json:"settings,omitempty"`
}

// SettingsInput 员工合同与偏好输入
type SettingsInput struct {
	MinShiftsPerWeek int                         `json:"min_shifts_per_week" validate:"min=0"`
	MaxShiftsPerWeek int                         `json:"max_shifts_per_week" validate:"min=0"`
	ClassBounds      map[string]model.ClassBound `json:"class_bounds,omitempty"`
	TargetShifts     *int                        `json:"target_shifts,omitempty"`
}

// ShiftInput 班次定义输入
type ShiftInput struct {
	ID            string `json:"id" validate:"required,uuid4"`
	Name          string `json:"name" validate:"required"`
	Position      int    `json:"position" validate:"min=0"`
	Class         string `json:"class" validate:"required,oneof=morning afternoon night"`
	RequiredStaff int    `json:"required_staff" validate:"min=0"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
}

// StateInput 员工遗留状态输入
type StateInput struct {
	EmployeeID       string      `json:"employee_id" validate:"required,uuid4"`
	WorkedLastNoon   bool        `json:"worked_last_noon"`
	WorkedLastNight  bool        `json:"worked_last_night"`
	WorkedPriorNight bool        `json:"worked_prior_night"`
	Streak           int         `json:"streak" validate:"min=0"`
	Unavailable      []SlotInput `json:"unavailable,omitempty" validate:"omitempty,dive"`
	Forced           []SlotInput `json:"forced,omitempty" validate:"omitempty,dive"`
}

// SlotInput 时段输入
type SlotInput struct {
	Day     int    `json:"day" validate:"min=0"`
	ShiftID string `json:"shift_id" validate:"required,uuid4"`
}

// WeightsInput 软约束权重输入
type WeightsInput struct {
	RestGap           int `json:"rest_gap" validate:"min=0"`
	Fairness          int `json:"fairness" validate:"min=0"`
	ConsecutiveNights int `json:"consecutive_nights" validate:"min=0"`
	ClassExcess       int `json:"class_excess" validate:"min=0"`
	ClassShortage     int `json:"class_shortage" validate:"min=0"`
}

// SolveResponse 排班求解响应
type SolveResponse struct {
	ScheduleID  string             `json:"schedule_id,omitempty"`
	Status      model.SolveStatus  `json:"status"`
	Objective   int                `json:"objective"`
	Assignments []AssignmentOutput `json:"assignments"`
	Duration    string             `json:"duration"`
	Vars        int                `json:"model_vars"`
	Constraints int                `json:"model_constraints"`
}

// AssignmentOutput 排班输出
type AssignmentOutput struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	ShiftID      string `json:"shift_id"`
	ShiftName    string `json:"shift_name"`
	ShiftClass   string `json:"shift_class"`
	Day          int    `json:"day"`
}

// Solve 求解一次周期排班
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}

	problem, appErr := buildProblem(&req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	c := h.compiler
	if req.Timeout > 0 {
		c = compiler.New()
		c.SetTimeLimit(time.Duration(req.Timeout) * time.Second)
	}

	result, err := c.Run(r.Context(), problem)
	if err != nil {
		respondError(w, asAppError(err))
		return
	}

	metrics.RecordSolve(string(result.Status), result.Duration)
	metrics.SetModelSize(problem.WorkplaceID.String(), result.Vars, result.Constraints)
	if result.Status.HasSolution() {
		metrics.SetSolveObjective(problem.WorkplaceID.String(), result.Objective)
	}

	var scheduleID string
	if h.schedules != nil && result.Status.HasSolution() {
		sched := &model.Schedule{
			WorkplaceID: problem.WorkplaceID,
			CycleStart:  req.CycleStart,
			Status:      result.Status,
			Objective:   result.Objective,
			SolvedAt:    time.Now(),
			Assignments: result.Assignments,
		}
		if err := h.schedules.SaveSchedule(r.Context(), sched); err != nil {
			// 求解已成功，持久化失败只记录不影响响应
			logger.Error().Err(err).
				Str("workplace_id", problem.WorkplaceID.String()).
				Msg("保存排班结果失败")
		} else {
			scheduleID = sched.ID.String()
		}
	}

	resp := SolveResponse{
		ScheduleID:  scheduleID,
		Status:      result.Status,
		Objective:   result.Objective,
		Assignments: make([]AssignmentOutput, 0, len(result.Assignments)),
		Duration:    result.Duration.String(),
		Vars:        result.Vars,
		Constraints: result.Constraints,
	}
	for _, a := range result.Assignments {
		resp.Assignments = append(resp.Assignments, AssignmentOutput{
			EmployeeID:   a.EmployeeID.String(),
			EmployeeName: a.EmployeeName,
			ShiftID:      a.ShiftID.String(),
			ShiftName:    a.ShiftName,
			ShiftClass:   string(a.ShiftClass),
			Day:          a.Day,
		})
	}

	status := http.StatusOK
	if result.Status == model.StatusInfeasible {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, resp)
}

// Get 按ID读取已持久化的排班表
func (h *SolveHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.schedules == nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "未启用持久化，无历史排班可查"))
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的排班表ID格式"))
		return
	}

	sched, err := h.schedules.GetSchedule(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "查询排班表失败"))
		return
	}
	if sched == nil {
		respondError(w, errors.New(errors.CodeNotFound, "排班表不存在"))
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

// buildProblem 由请求体装配求解输入
func buildProblem(req *SolveRequest) (*compiler.Problem, *errors.AppError) {
	workplaceID, err := uuid.Parse(req.WorkplaceID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的工作场所ID格式")
	}

	employees := make([]*model.Employee, 0, len(req.Employees))
	for _, e := range req.Employees {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+e.ID)
		}
		emp := &model.Employee{
			BaseModel:   model.BaseModel{ID: id},
			WorkplaceID: workplaceID,
			Name:        e.Name,
			Status:      e.Status,
		}
		if emp.Status == "" {
			emp.Status = "active"
		}
		if e.Settings != nil {
			emp.Settings = settingsFromInput(id, e.Settings)
		}
		employees = append(employees, emp)
	}

	shifts := make([]*model.ShiftDefinition, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+s.ID)
		}
		shifts = append(shifts, &model.ShiftDefinition{
			BaseModel:     model.BaseModel{ID: id},
			WorkplaceID:   workplaceID,
			Name:          s.Name,
			Position:      s.Position,
			Class:         model.ShiftClass(s.Class),
			RequiredStaff: s.RequiredStaff,
			StartTime:     s.StartTime,
			EndTime:       s.EndTime,
		})
	}

	states := make(map[uuid.UUID]*model.EmployeeState, len(req.States))
	for i := range req.States {
		state, appErr := stateFromInput(&req.States[i])
		if appErr != nil {
			return nil, appErr
		}
		states[state.EmployeeID] = state
	}

	return &compiler.Problem{
		WorkplaceID: workplaceID,
		Employees:   employees,
		Shifts:      shifts,
		States:      states,
		Weights: &model.WorkplaceWeights{
			WorkplaceID:       workplaceID,
			RestGap:           req.Weights.RestGap,
			Fairness:          req.Weights.Fairness,
			ConsecutiveNights: req.Weights.ConsecutiveNights,
			ClassExcess:       req.Weights.ClassExcess,
			ClassShortage:     req.Weights.ClassShortage,
		},
		Days: req.Days,
	}, nil
}

// asAppError 将任意错误归一为AppError
func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "求解失败")
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
