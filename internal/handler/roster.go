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

// RosterHandler 花名册管理处理器
// 维护数据库中的员工、班次、权重与遗留状态，并支持直接从库中装配问题求解
type RosterHandler struct {
	compiler  *compiler.Compiler
	validate  *validator.Validate
	employees *repository.EmployeeRepository
	shifts    *repository.ShiftRepository
	schedules *repository.ScheduleRepository
}

// NewRosterHandler 创建花名册处理器
func NewRosterHandler(
	c *compiler.Compiler,
	employees *repository.EmployeeRepository,
	shifts *repository.ShiftRepository,
	schedules *repository.ScheduleRepository,
) *RosterHandler {
	return &RosterHandler{
		compiler:  c,
		validate:  validator.New(),
		employees: employees,
		shifts:    shifts,
		schedules: schedules,
	}
}

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	WorkplaceID string         `json:"workplace_id" validate:"required,uuid4"`
	Name        string         `json:"name" validate:"required"`
	Code        string         `json:"code,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Email       string         `json:"email,omitempty" validate:"omitempty,email"`
	Status      string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive leave"`
	Settings    *SettingsInput `json:"settings,omitempty"`
}

// Employees 员工集合端点：GET 列表 / POST 创建
func (h *RosterHandler) Employees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		workplaceID, err := uuid.Parse(r.URL.Query().Get("workplace_id"))
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的工作场所ID格式"))
			return
		}
		list, err := h.employees.ListByWorkplace(r.Context(), workplaceID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "查询员工列表失败"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"employees": list,
			"count":     len(list),
		})

	case http.MethodPost:
		var req CreateEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
			return
		}

		workplaceID, _ := uuid.Parse(req.WorkplaceID)
		emp := &model.Employee{
			WorkplaceID: workplaceID,
			Name:        req.Name,
			Code:        req.Code,
			Phone:       req.Phone,
			Email:       req.Email,
			Status:      req.Status,
		}
		if emp.Status == "" {
			emp.Status = "active"
		}
		if req.Settings != nil {
			emp.Settings = settingsFromInput(uuid.Nil, req.Settings)
		}
		if err := h.employees.Create(r.Context(), emp); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "创建员工失败"))
			return
		}
		if emp.Settings != nil {
			emp.Settings.EmployeeID = emp.ID
		}
		respondJSON(w, http.StatusCreated, emp)

	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/POST方法"))
	}
}

// UpdateSettingsRequest 更新员工合同设置请求
type UpdateSettingsRequest struct {
	EmployeeID string         `json:"employee_id" validate:"required,uuid4"`
	Settings   *SettingsInput `json:"settings" validate:"required"`
}

// EmployeeSettings 更新员工合同设置
func (h *RosterHandler) EmployeeSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持PUT方法"))
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}

	empID, _ := uuid.Parse(req.EmployeeID)
	emp, err := h.employees.GetByID(r.Context(), empID)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "查询员工失败"))
		return
	}
	if emp == nil {
		respondError(w, errors.NotFound("员工", req.EmployeeID))
		return
	}

	settings := settingsFromInput(empID, req.Settings)
	if err := h.employees.UpdateSettings(r.Context(), empID, settings); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "更新员工设置失败"))
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// CreateShiftRequest 创建班次定义请求
type CreateShiftRequest struct {
	WorkplaceID   string `json:"workplace_id" validate:"required,uuid4"`
	Name          string `json:"name" validate:"required"`
	Position      int    `json:"position" validate:"min=0"`
	Class         string `json:"class" validate:"required,oneof=morning afternoon night"`
	RequiredStaff int    `json:"required_staff" validate:"min=0"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
}

// Shifts 班次集合端点：GET 列表 / POST 创建
func (h *RosterHandler) Shifts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		workplaceID, err := uuid.Parse(r.URL.Query().Get("workplace_id"))
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的工作场所ID格式"))
			return
		}
		list, err := h.shifts.ListByWorkplace(r.Context(), workplaceID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "查询班次定义失败"))
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"shifts": list,
			"count":  len(list),
		})

	case http.MethodPost:
		var req CreateShiftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
			return
		}

		workplaceID, _ := uuid.Parse(req.WorkplaceID)
		shift := &model.ShiftDefinition{
			WorkplaceID:   workplaceID,
			Name:          req.Name,
			Position:      req.Position,
			Class:         model.ShiftClass(req.Class),
			RequiredStaff: req.RequiredStaff,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
		}
		if err := h.shifts.Create(r.Context(), shift); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "创建班次定义失败"))
			return
		}
		respondJSON(w, http.StatusCreated, shift)

	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/POST方法"))
	}
}

// SaveWeightsRequest 保存权重请求
type SaveWeightsRequest struct {
	WorkplaceID string        `json:"workplace_id" validate:"required,uuid4"`
	Weights     *WeightsInput `json:"weights" validate:"required"`
}

// Weights 权重端点：GET 查询 / PUT 写入
func (h *RosterHandler) Weights(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		workplaceID, err := uuid.Parse(r.URL.Query().Get("workplace_id"))
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的工作场所ID格式"))
			return
		}
		weights, err := h.shifts.GetWeights(r.Context(), workplaceID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "查询权重失败"))
			return
		}
		if weights == nil {
			respondError(w, errors.NotFound("权重配置", workplaceID.String()))
			return
		}
		respondJSON(w, http.StatusOK, weights)

	case http.MethodPut:
		var req SaveWeightsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
			return
		}

		workplaceID, _ := uuid.Parse(req.WorkplaceID)
		weights := &model.WorkplaceWeights{
			WorkplaceID:       workplaceID,
			RestGap:           req.Weights.RestGap,
			Fairness:          req.Weights.Fairness,
			ConsecutiveNights: req.Weights.ConsecutiveNights,
			ClassExcess:       req.Weights.ClassExcess,
			ClassShortage:     req.Weights.ClassShortage,
		}
		if err := h.shifts.SaveWeights(r.Context(), weights); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "保存权重失败"))
			return
		}
		respondJSON(w, http.StatusOK, weights)

	default:
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET/PUT方法"))
	}
}

// States 员工遗留状态写入端点
func (h *RosterHandler) States(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持PUT方法"))
		return
	}

	var req StateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}

	state, appErr := stateFromInput(&req)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	if err := h.schedules.SaveState(r.Context(), state); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "保存员工状态失败"))
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SolveStoredRequest 从数据库装配并求解的请求
type SolveStoredRequest struct {
	WorkplaceID string `json:"workplace_id" validate:"required,uuid4"`
	CycleStart  string `json:"cycle_start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Days        int    `json:"days,omitempty" validate:"omitempty,min=1,max=31"`
	Timeout     int    `json:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
}

// SolveStored 从数据库装配花名册、班次、权重与状态并求解
// 求解成功后持久化排班表，并把推导出的下一周期遗留状态写回
func (h *RosterHandler) SolveStored(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req SolveStoredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}
	workplaceID, _ := uuid.Parse(req.WorkplaceID)

	problem, appErr := h.loadProblem(r, workplaceID, req.Days)
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
	metrics.SetModelSize(workplaceID.String(), result.Vars, result.Constraints)

	var scheduleID string
	if result.Status.HasSolution() {
		metrics.SetSolveObjective(workplaceID.String(), result.Objective)

		sched := &model.Schedule{
			WorkplaceID: workplaceID,
			CycleStart:  req.CycleStart,
			Status:      result.Status,
			Objective:   result.Objective,
			SolvedAt:    time.Now(),
			Assignments: result.Assignments,
		}
		if err := h.schedules.SaveSchedule(r.Context(), sched); err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInternal, "保存排班结果失败"))
			return
		}
		scheduleID = sched.ID.String()

		// 状态写回允许失败，下个周期仍可手动修正
		for _, st := range compiler.NextStates(problem, result.Assignments) {
			if err := h.schedules.SaveState(r.Context(), st); err != nil {
				logger.Error().Err(err).
					Str("employee_id", st.EmployeeID.String()).
					Msg("写回员工遗留状态失败")
			}
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

// loadProblem 从数据库装配求解输入
func (h *RosterHandler) loadProblem(r *http.Request, workplaceID uuid.UUID, days int) (*compiler.Problem, *errors.AppError) {
	employees, err := h.employees.ListByWorkplace(r.Context(), workplaceID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "加载员工列表失败")
	}
	if len(employees) == 0 {
		return nil, errors.New(errors.CodeConfigInvalid, "工作场所没有员工")
	}

	shifts, err := h.shifts.ListByWorkplace(r.Context(), workplaceID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "加载班次定义失败")
	}
	if len(shifts) == 0 {
		return nil, errors.New(errors.CodeConfigInvalid, "工作场所没有班次定义")
	}

	weights, err := h.shifts.GetWeights(r.Context(), workplaceID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "加载权重失败")
	}
	if weights == nil {
		return nil, errors.New(errors.CodeConfigInvalid, "工作场所未配置权重")
	}

	states, err := h.schedules.GetStates(r.Context(), workplaceID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "加载员工状态失败")
	}

	return &compiler.Problem{
		WorkplaceID: workplaceID,
		Employees:   employees,
		Shifts:      shifts,
		States:      states,
		Weights:     weights,
		Days:        days,
	}, nil
}

// settingsFromInput 由输入装配员工设置
func settingsFromInput(empID uuid.UUID, in *SettingsInput) *model.EmployeeSettings {
	settings := &model.EmployeeSettings{
		EmployeeID:       empID,
		MinShiftsPerWeek: in.MinShiftsPerWeek,
		MaxShiftsPerWeek: in.MaxShiftsPerWeek,
		TargetShifts:     in.TargetShifts,
	}
	if len(in.ClassBounds) > 0 {
		settings.ClassBounds = make(map[model.ShiftClass]model.ClassBound, len(in.ClassBounds))
		for class, bound := range in.ClassBounds {
			settings.ClassBounds[model.ShiftClass(class)] = bound
		}
	}
	return settings
}

// stateFromInput 由输入装配员工遗留状态
func stateFromInput(in *StateInput) (*model.EmployeeState, *errors.AppError) {
	empID, err := uuid.Parse(in.EmployeeID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+in.EmployeeID)
	}
	state := &model.EmployeeState{
		EmployeeID:       empID,
		WorkedLastNoon:   in.WorkedLastNoon,
		WorkedLastNight:  in.WorkedLastNight,
		WorkedPriorNight: in.WorkedPriorNight,
		Streak:           in.Streak,
	}
	for _, slot := range in.Unavailable {
		shiftID, err := uuid.Parse(slot.ShiftID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+slot.ShiftID)
		}
		state.Unavailable = append(state.Unavailable, model.Slot{Day: slot.Day, ShiftID: shiftID})
	}
	for _, slot := range in.Forced {
		shiftID, err := uuid.Parse(slot.ShiftID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+slot.ShiftID)
		}
		state.Forced = append(state.Forced, model.Slot{Day: slot.Day, ShiftID: shiftID})
	}
	return state, nil
}
