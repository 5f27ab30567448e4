package service

import (
	"fmt"
	"math"
)

// BMI 状态
const (
	BMIStatusUnderweight = "Underweight"
	BMIStatusNormal      = "Normal"
	BMIStatusOverweight  = "Overweight"
	BMIStatusObese       = "Obese"
)

// BMIPlaceholder 在身高缺失时代替数值展示
const BMIPlaceholder = "—"

const (
	gaugeMinBMI = 15.0
	gaugeMaxBMI = 40.0
)

// BMIReading 描述仪表盘需要的全部数据
type BMIReading struct {
	Valid      bool    `json:"valid"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Angle      float64 `json:"angle"`
}

// ComputeBMI 根据身高(cm)与体重(kg)计算 BMI 及指针角度。
// 身高不大于 0 或结果不是有限数时返回占位符，指针停在 -90°。
func ComputeBMI(heightCm, weightKg float64) BMIReading {
	placeholder := BMIReading{Display: BMIPlaceholder, Angle: GaugeAngle(0)}
	if heightCm <= 0 || math.IsNaN(heightCm) || math.IsNaN(weightKg) {
		return placeholder
	}

	meters := heightCm / 100
	bmi := weightKg / (meters * meters)
	// JSON 无法编码 Inf/NaN
	if math.IsInf(bmi, 0) || math.IsNaN(bmi) {
		return placeholder
	}
	percentage := GaugePercentage(bmi)

	return BMIReading{
		Valid:      true,
		Value:      bmi,
		Display:    fmt.Sprintf("%.1f", bmi),
		Status:     ClassifyBMI(bmi),
		Percentage: percentage,
		Angle:      GaugeAngle(percentage),
	}
}

// ClassifyBMI 区间均为左闭右开：18.5、25、30 属于更高一档
func ClassifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIStatusUnderweight
	case bmi < 25:
		return BMIStatusNormal
	case bmi < 30:
		return BMIStatusOverweight
	default:
		return BMIStatusObese
	}
}

// GaugePercentage 把 [15,40] 线性映射到 [0,100]，两端截断
func GaugePercentage(bmi float64) float64 {
	pct := (bmi - gaugeMinBMI) / (gaugeMaxBMI - gaugeMinBMI) * 100
	return math.Max(0, math.Min(100, pct))
}

// GaugeAngle 0% 对应 -90°，100% 对应 +90°
func GaugeAngle(percentage float64) float64 {
	return percentage*1.8 - 90
}
