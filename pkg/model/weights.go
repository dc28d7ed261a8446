// Package model 定义周期排班编译器的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// WorkplaceWeights 工作场所级别的软约束惩罚权重
// 相对大小表达规则优先级，绝对数值无意义（目标只取加权和）
type WorkplaceWeights struct {
	WorkplaceID uuid.UUID `json:"workplace_id" db:"workplace_id"`

	RestGap           int `json:"weight_rest_gap" db:"weight_rest_gap"`                     // 休息间隔不足
	Fairness          int `json:"weight_fairness" db:"weight_fairness"`                     // 目标班次数偏差
	ConsecutiveNights int `json:"weight_consecutive_nights" db:"weight_consecutive_nights"` // 三连夜班
	ClassExcess       int `json:"weight_class_excess" db:"weight_class_excess"`             // 按类别超出偏好上限
	ClassShortage     int `json:"weight_class_shortage" db:"weight_class_shortage"`         // 按类别低于偏好下限
}

// Each 依次访问每个权重分量
func (w *WorkplaceWeights) Each(fn func(name string, value int)) {
	fn("rest_gap", w.RestGap)
	fn("fairness", w.Fairness)
	fn("consecutive_nights", w.ConsecutiveNights)
	fn("class_excess", w.ClassExcess)
	fn("class_shortage", w.ClassShortage)
}
