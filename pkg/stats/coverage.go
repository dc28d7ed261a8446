// Package stats 提供排班结果的统计分析功能
package stats

import (
	"fmt"

	"github.com/paiban/cpban/pkg/model"
)

// CoverageMetrics 覆盖率指标
// 覆盖是硬约束，最优/可行解的覆盖率必然是 100%；
// 该分析器主要用于核对外部导入或人工修改过的排班表
type CoverageMetrics struct {
	TotalRequired   int     `json:"total_required"`   // 周期内总需求人次
	TotalAssigned   int     `json:"total_assigned"`   // 实际分配人次
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	DailyCoverage map[int]DayCoverage  `json:"daily_coverage"` // 按天
	SlotGaps      []SlotGap            `json:"slot_gaps,omitempty"` // 人数不符的槽位
}

// DayCoverage 单日覆盖情况
type DayCoverage struct {
	Day          int     `json:"day"`
	Required     int     `json:"required"`
	Assigned     int     `json:"assigned"`
	CoverageRate float64 `json:"coverage_rate"`
}

// SlotGap 人数不符的 (天, 班次) 槽位
type SlotGap struct {
	Day       int    `json:"day"`
	ShiftID   string `json:"shift_id"`
	ShiftName string `json:"shift_name"`
	Required  int    `json:"required"`
	Assigned  int    `json:"assigned"`
	Delta     int    `json:"delta"` // 分配 - 需求
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct {
	days int
}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer(days int) *CoverageAnalyzer {
	if days <= 0 {
		days = model.CycleDays
	}
	return &CoverageAnalyzer{days: days}
}

// Analyze 对照班次需求分析一份排班表的覆盖情况
func (c *CoverageAnalyzer) Analyze(assignments []*model.Assignment, shifts []*model.ShiftDefinition) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage: make(map[int]DayCoverage, c.days),
	}
	if len(shifts) == 0 {
		metrics.OverallCoverage = 100
		return metrics
	}

	// 统计每个槽位的实际分配
	assigned := make(map[string]int)
	for _, a := range assignments {
		if a.Day >= 0 && a.Day < c.days {
			assigned[slotKey(a.Day, a.ShiftID.String())]++
		}
	}

	for d := 0; d < c.days; d++ {
		day := DayCoverage{Day: d}
		for _, s := range shifts {
			got := assigned[slotKey(d, s.ID.String())]
			day.Required += s.RequiredStaff
			day.Assigned += got
			if got != s.RequiredStaff {
				metrics.SlotGaps = append(metrics.SlotGaps, SlotGap{
					Day:       d,
					ShiftID:   s.ID.String(),
					ShiftName: s.Name,
					Required:  s.RequiredStaff,
					Assigned:  got,
					Delta:     got - s.RequiredStaff,
				})
			}
		}
		if day.Required > 0 {
			rate := float64(day.Assigned) / float64(day.Required) * 100
			if rate > 100 {
				rate = 100
			}
			day.CoverageRate = rate
		} else {
			day.CoverageRate = 100
		}
		metrics.DailyCoverage[d] = day
		metrics.TotalRequired += day.Required
		metrics.TotalAssigned += day.Assigned
	}

	if metrics.TotalRequired > 0 {
		rate := float64(metrics.TotalAssigned) / float64(metrics.TotalRequired) * 100
		if rate > 100 {
			rate = 100
		}
		metrics.OverallCoverage = rate
	} else {
		metrics.OverallCoverage = 100
	}
	return metrics
}

func slotKey(day int, shiftID string) string {
	return fmt.Sprintf("%d/%s", day, shiftID)
}
