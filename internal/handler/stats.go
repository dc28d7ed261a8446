package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/paiban/cpban/internal/metrics"
	"github.com/paiban/cpban/pkg/errors"
	"github.com/paiban/cpban/pkg/model"
	"github.com/paiban/cpban/pkg/stats"
)

// StatsHandler 统计分析处理器
type StatsHandler struct {
	validate *validator.Validate
}

// NewStatsHandler 创建统计处理器
func NewStatsHandler() *StatsHandler {
	return &StatsHandler{validate: validator.New()}
}

// FairnessRequest 公平性分析请求
type FairnessRequest struct {
	WorkplaceID string                `json:"workplace_id" validate:"required,uuid4"`
	Employees   []EmployeeInput       `json:"employees" validate:"required,min=1,dive"`
	Assignments []AssignmentStatInput `json:"assignments" validate:"required,dive"`
}

// AssignmentStatInput 分配记录输入
type AssignmentStatInput struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid4"`
	ShiftID    string `json:"shift_id" validate:"required,uuid4"`
	ShiftClass string `json:"shift_class,omitempty" validate:"omitempty,oneof=morning afternoon night"`
	Day        int    `json:"day" validate:"min=0"`
}

// CoverageRequest 覆盖率分析请求
type CoverageRequest struct {
	WorkplaceID string                `json:"workplace_id" validate:"required,uuid4"`
	Days        int                   `json:"days,omitempty" validate:"omitempty,min=1,max=31"`
	Shifts      []ShiftInput          `json:"shifts" validate:"required,min=1,dive"`
	Assignments []AssignmentStatInput `json:"assignments" validate:"required,dive"`
}

// Fairness 分析一份排班表的公平性
func (h *StatsHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req FairnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}

	employees, appErr := decodeEmployees(req.WorkplaceID, req.Employees)
	if appErr != nil {
		respondError(w, appErr)
		return
	}
	assignments, appErr := decodeAssignments(req.Assignments)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	result := stats.NewFairnessAnalyzer().Analyze(assignments, employees)
	metrics.SetFairnessGini(req.WorkplaceID, "shift_count", result.ShiftCountGini)
	metrics.SetFairnessGini(req.WorkplaceID, "night_shift", result.NightShiftGini)

	respondJSON(w, http.StatusOK, result)
}

// Coverage 对照班次需求分析覆盖情况
func (h *StatsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req CoverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeValidationFail, "请求字段校验失败").WithDetails(err.Error()))
		return
	}

	shifts := make([]*model.ShiftDefinition, 0, len(req.Shifts))
	for _, s := range req.Shifts {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+s.ID))
			return
		}
		shifts = append(shifts, &model.ShiftDefinition{
			BaseModel:     model.BaseModel{ID: id},
			Name:          s.Name,
			Position:      s.Position,
			Class:         model.ShiftClass(s.Class),
			RequiredStaff: s.RequiredStaff,
		})
	}
	assignments, appErr := decodeAssignments(req.Assignments)
	if appErr != nil {
		respondError(w, appErr)
		return
	}

	result := stats.NewCoverageAnalyzer(req.Days).Analyze(assignments, shifts)
	metrics.SetCoverageRate(req.WorkplaceID, result.OverallCoverage)

	respondJSON(w, http.StatusOK, result)
}

// decodeEmployees 解析员工输入列表
func decodeEmployees(workplaceID string, inputs []EmployeeInput) ([]*model.Employee, *errors.AppError) {
	wid, _ := uuid.Parse(workplaceID)
	employees := make([]*model.Employee, 0, len(inputs))
	for _, e := range inputs {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+e.ID)
		}
		emp := &model.Employee{
			BaseModel:   model.BaseModel{ID: id},
			WorkplaceID: wid,
			Name:        e.Name,
			Status:      e.Status,
		}
		if emp.Status == "" {
			emp.Status = "active"
		}
		if e.Settings != nil {
			emp.Settings = &model.EmployeeSettings{
				EmployeeID:       id,
				MinShiftsPerWeek: e.Settings.MinShiftsPerWeek,
				MaxShiftsPerWeek: e.Settings.MaxShiftsPerWeek,
				TargetShifts:     e.Settings.TargetShifts,
			}
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// decodeAssignments 解析分配记录输入列表
func decodeAssignments(inputs []AssignmentStatInput) ([]*model.Assignment, *errors.AppError) {
	assignments := make([]*model.Assignment, 0, len(inputs))
	for _, a := range inputs {
		empID, err := uuid.Parse(a.EmployeeID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的员工ID格式: "+a.EmployeeID)
		}
		shiftID, err := uuid.Parse(a.ShiftID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, "无效的班次ID格式: "+a.ShiftID)
		}
		assignments = append(assignments, &model.Assignment{
			EmployeeID: empID,
			ShiftID:    shiftID,
			ShiftClass: model.ShiftClass(a.ShiftClass),
			Day:        a.Day,
		})
	}
	return assignments, nil
}
