package db

import (
	"time"

	"gorm.io/gorm"
)

// 餐次类型
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// MealTypes 按一天中的先后顺序列出全部餐次
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// DayLog 记录某个设备在某一天的全部餐食
// DeviceID + Date 采用唯一索引，保证每天最多一条；Date 使用 yyyy-MM-dd 字符串
// 条目全部删除后 DayLog 仍然保留，统计时视为未记录
type DayLog struct {
	gorm.Model
	DeviceID string      `gorm:"size:36;index;index:idx_day_log_unique,unique"`
	Date     string      `gorm:"size:10;index:idx_day_log_unique,unique"`
	Entries  []MealEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName 重写确保唯一索引作用到 device_id + date
func (DayLog) TableName() string {
	return "day_logs"
}

// MealEntry 是一条餐食记录
// EntryID 为对外暴露的 UUID；自增主键只用于保持插入顺序
// 创建后不可修改，编辑时按 EntryID 整体替换内容字段
type MealEntry struct {
	gorm.Model
	EntryID     string   `gorm:"size:36;uniqueIndex"`
	DayLogID    uint     `gorm:"index"`
	DeviceID    string   `gorm:"size:36;index"`
	MealType    string   `gorm:"size:16"`
	Name        string   `gorm:"not null"`
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Ingredients []string `gorm:"serializer:json"`
	HealthScore *int
	Reasoning   string    `gorm:"type:text"`
	Timestamp   time.Time `gorm:"index"`
}

func (MealEntry) TableName() string {
	return "meal_entries"
}
