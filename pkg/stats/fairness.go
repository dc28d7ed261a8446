// Package stats 提供排班结果的统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/paiban/cpban/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 班次数公平性
	ShiftCountGini       float64 `json:"shift_count_gini"` // 班次数基尼系数 (0=完全公平)
	ShiftCountVariance   float64 `json:"shift_count_variance"`
	ShiftCountStdDev     float64 `json:"shift_count_std_dev"`
	AvgShiftsPerEmployee float64 `json:"avg_shifts_per_employee"`
	MaxShifts            int     `json:"max_shifts"`
	MinShifts            int     `json:"min_shifts"`

	// 夜班分配公平性
	NightShiftGini float64 `json:"night_shift_gini"`

	// 与目标班次数的偏差
	TotalTargetDeviation int `json:"total_target_deviation"` // 所有员工偏差绝对值之和

	// 员工级别统计
	EmployeeStats []EmployeeStat `json:"employee_stats"`

	// 综合评分 (0-100)
	OverallFairnessScore float64 `json:"overall_fairness_score"`
}

// EmployeeStat 员工统计
type EmployeeStat struct {
	EmployeeID      uuid.UUID `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	ShiftCount      int       `json:"shift_count"`
	NightShifts     int       `json:"night_shifts"`
	TargetShifts    int       `json:"target_shifts"`
	TargetDeviation int       `json:"target_deviation"` // |实际 - 目标|
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析一份排班表的公平性
func (f *FairnessAnalyzer) Analyze(assignments []*model.Assignment, employees []*model.Employee) *FairnessMetrics {
	if len(assignments) == 0 || len(employees) == 0 {
		return &FairnessMetrics{OverallFairnessScore: 100}
	}

	// 按员工归并
	statMap := make(map[uuid.UUID]*EmployeeStat, len(employees))
	order := make([]uuid.UUID, 0, len(employees))
	for _, e := range employees {
		if !e.IsActive() {
			continue
		}
		stat := &EmployeeStat{EmployeeID: e.ID, EmployeeName: e.Name}
		if e.Settings != nil {
			stat.TargetShifts = e.Settings.ResolveTarget()
		}
		statMap[e.ID] = stat
		order = append(order, e.ID)
	}

	for _, a := range assignments {
		stat, ok := statMap[a.EmployeeID]
		if !ok {
			continue
		}
		stat.ShiftCount++
		if a.ShiftClass == model.ClassNight {
			stat.NightShifts++
		}
	}

	counts := make([]float64, 0, len(order))
	nights := make([]float64, 0, len(order))
	stats := make([]EmployeeStat, 0, len(order))
	totalDeviation := 0
	maxShifts, minShifts := 0, math.MaxInt

	for _, id := range order {
		stat := statMap[id]
		stat.TargetDeviation = abs(stat.ShiftCount - stat.TargetShifts)
		totalDeviation += stat.TargetDeviation
		counts = append(counts, float64(stat.ShiftCount))
		nights = append(nights, float64(stat.NightShifts))
		if stat.ShiftCount > maxShifts {
			maxShifts = stat.ShiftCount
		}
		if stat.ShiftCount < minShifts {
			minShifts = stat.ShiftCount
		}
		stats = append(stats, *stat)
	}

	// 班次数多的在前
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ShiftCount > stats[j].ShiftCount
	})

	avg := mean(counts)
	variance := varianceOf(counts, avg)
	gini := giniOf(counts)
	nightGini := giniOf(nights)

	return &FairnessMetrics{
		ShiftCountGini:       gini,
		ShiftCountVariance:   variance,
		ShiftCountStdDev:     math.Sqrt(variance),
		AvgShiftsPerEmployee: avg,
		MaxShifts:            maxShifts,
		MinShifts:            minShifts,
		NightShiftGini:       nightGini,
		TotalTargetDeviation: totalDeviation,
		EmployeeStats:        stats,
		OverallFairnessScore: overallScore(gini, nightGini),
	}
}

// overallScore 综合评分：基尼系数越低越公平
func overallScore(gini, nightGini float64) float64 {
	score := 100 * (1 - 0.6*gini - 0.4*nightGini)
	if score < 0 {
		return 0
	}
	return score
}

// mean 均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 方差
func varianceOf(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}

// giniOf 基尼系数
func giniOf(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var total, weighted float64
	for i, v := range sorted {
		total += v
		weighted += float64(i+1) * v
	}
	if total == 0 {
		return 0
	}
	return (2*weighted)/(float64(n)*total) - float64(n+1)/float64(n)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
