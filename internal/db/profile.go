package db

import "gorm.io/gorm"

// 目标取值
const (
	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
)

// UserProfile 存储设备对应的身高体重，供 BMI 仪表盘读取。
// 每个设备最多一条，Height 单位 cm，Weight 单位 kg。
type UserProfile struct {
	gorm.Model
	DeviceID string `gorm:"size:36;uniqueIndex"`
	Height   float64
	Weight   float64
	Goal     string `gorm:"size:16"`
}

// TableName 自定义表名以保持命名一致。
func (UserProfile) TableName() string {
	return "user_profiles"
}
