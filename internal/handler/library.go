package handler

import (
	"net/http"
)

// ConstraintParam 约束参数定义
type ConstraintParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, bool, array
	Description string `json:"description"`
	Default     string `json:"default"`
	Min         string `json:"min,omitempty"`
	Max         string `json:"max,omitempty"`
}

// ConstraintDefinition 约束定义
type ConstraintDefinition struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Type        string            `json:"type"` // hard/soft
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Params      []ConstraintParam `json:"params"`
}

// ConstraintLibraryResponse 约束库响应
type ConstraintLibraryResponse struct {
	Library []ConstraintDefinition `json:"library"`
}

// ConstraintLibrary 返回求解器支持的所有约束及参数定义
func ConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	library := []ConstraintDefinition{
		// ========================================
		// 硬约束
		// ========================================
		{
			Name:        "exact_coverage",
			DisplayName: "班次人数精确覆盖",
			Type:        "hard",
			Category:    "服务保障",
			Description: "每个 (天, 班次) 槽位的在职员工分配数必须恰好等于该班次的需求人数，不多不少。",
			Params: []ConstraintParam{
				{Name: "required_staff", Type: "int", Description: "每班次需求人数", Default: "1", Min: "0"},
			},
		},
		{
			Name:        "one_shift_per_day",
			DisplayName: "每天至多一个班次",
			Type:        "hard",
			Category:    "排班模式",
			Description: "同一员工同一天最多被分配到一个班次。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "no_back_to_back",
			DisplayName: "禁止连班",
			Type:        "hard",
			Category:    "休息保障",
			Description: "在按天展开的班次时间线上，同一员工不得被分配到相邻的两个班次（含跨天相邻，如当天夜班接次日早班）。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "unavailability",
			DisplayName: "不可用时段",
			Type:        "hard",
			Category:    "可用性",
			Description: "员工标记为不可用的 (天, 班次) 槽位不会被分配。",
			Params: []ConstraintParam{
				{Name: "slots", Type: "array", Description: "不可用槽位列表", Default: "[]"},
			},
		},
		{
			Name:        "forced_assignment",
			DisplayName: "指定出勤",
			Type:        "hard",
			Category:    "可用性",
			Description: "员工被指定出勤的 (天, 班次) 槽位必须被分配。与不可用时段冲突时在求解前报配置错误。",
			Params: []ConstraintParam{
				{Name: "slots", Type: "array", Description: "指定出勤槽位列表", Default: "[]"},
			},
		},
		{
			Name:        "cross_cycle_rest",
			DisplayName: "跨周期休息衔接",
			Type:        "hard",
			Category:    "休息保障",
			Description: "上个周期最后一天上了夜班的员工，本周期第一天不得分配早班。",
			Params:      []ConstraintParam{},
		},
		{
			Name:        "working_day_streak",
			DisplayName: "连续工作天数上限",
			Type:        "hard",
			Category:    "休息保障",
			Description: "结合上个周期末的连续工作天数，保证员工连续工作不超过上限，周期开头必须出现一个完整休息日。",
			Params: []ConstraintParam{
				{Name: "max_days", Type: "int", Description: "最大连续工作天数", Default: "7", Min: "1", Max: "7"},
			},
		},
		{
			Name:        "weekly_shift_bounds",
			DisplayName: "每周班次数区间",
			Type:        "hard",
			Category:    "工时限制",
			Description: "员工在一个周期内的总班次数落在其合同规定的最少/最多区间内。",
			Params: []ConstraintParam{
				{Name: "min_shifts", Type: "int", Description: "每周最少班次数", Default: "0", Min: "0"},
				{Name: "max_shifts", Type: "int", Description: "每周最多班次数", Default: "0", Min: "0"},
			},
		},
		// ========================================
		// 软约束
		// ========================================
		{
			Name:        "class_bounds",
			DisplayName: "按班次类别的偏好区间",
			Type:        "soft",
			Category:    "偏好",
			Description: "员工对某类班次（早/午/夜）的数量偏好区间，超出或不足按超出量线性计罚。",
			Params: []ConstraintParam{
				{Name: "excess_weight", Type: "int", Description: "超出惩罚权重", Default: "1", Min: "0"},
				{Name: "shortage_weight", Type: "int", Description: "不足惩罚权重", Default: "1", Min: "0"},
			},
		},
		{
			Name:        "fairness",
			DisplayName: "目标班次数公平性",
			Type:        "soft",
			Category:    "公平性",
			Description: "员工实得班次数与目标班次数的双侧偏差按权重计罚。目标缺省取每周区间的中点。",
			Params: []ConstraintParam{
				{Name: "weight", Type: "int", Description: "偏差惩罚权重", Default: "1", Min: "0"},
			},
		},
		{
			Name:        "consecutive_nights",
			DisplayName: "连续夜班惩罚",
			Type:        "soft",
			Category:    "休息保障",
			Description: "任意三个连续夜班（含跨周期边界的组合）触发一次惩罚。",
			Params: []ConstraintParam{
				{Name: "weight", Type: "int", Description: "惩罚权重", Default: "1", Min: "0"},
			},
		},
		{
			Name:        "rest_gap",
			DisplayName: "班次间休息间隔",
			Type:        "soft",
			Category:    "休息保障",
			Description: "时间线上相隔一个槽位的两个班次（休息不足一整天）按权重计罚，含跨周期边界的组合。",
			Params: []ConstraintParam{
				{Name: "weight", Type: "int", Description: "惩罚权重", Default: "1", Min: "0"},
			},
		},
	}

	respondJSON(w, http.StatusOK, ConstraintLibraryResponse{Library: library})
}
