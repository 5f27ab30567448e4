package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProfileInvalid 当身高或体重为负数或超出合理范围时返回
var ErrProfileInvalid = errors.New("invalid profile")

// 身高为 0 表示未填写；填写后必须落在合理范围内，避免 BMI 溢出
const (
	minHeightCm = 30.0
	maxHeightCm = 300.0
	maxWeightKg = 700.0
)

// ProfileService 维护每个设备的身高、体重与目标
type ProfileService struct {
	db *gorm.DB
}

// ProfileInput 更新资料时可配置的字段
type ProfileInput struct {
	Height float64
	Weight float64
	Goal   string
}

// Validate 校验身高与体重，返回按字段的错误提示
func (input ProfileInput) Validate(language string) FieldErrors {
	errs := FieldErrors{}
	switch {
	case math.IsNaN(input.Height) || input.Height < 0:
		errs["height"] = locale.Message(language, locale.MsgHeightNonNegative)
	case input.Height > 0 && (input.Height < minHeightCm || input.Height > maxHeightCm):
		errs["height"] = locale.Message(language, locale.MsgHeightRange)
	}
	switch {
	case math.IsNaN(input.Weight) || input.Weight < 0:
		errs["weight"] = locale.Message(language, locale.MsgWeightNonNegative)
	case input.Weight > maxWeightKg:
		errs["weight"] = locale.Message(language, locale.MsgWeightRange)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// Get 返回设备资料；尚未填写时返回零值资料
func (s *ProfileService) Get(deviceID string) (*db.UserProfile, error) {
	var profile db.UserProfile
	if err := s.db.Where("device_id = ?", deviceID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &db.UserProfile{DeviceID: deviceID, Goal: db.GoalMaintain}, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Save 写入设备资料，已存在时覆盖
func (s *ProfileService) Save(deviceID string, input ProfileInput) (*db.UserProfile, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceRequired
	}
	if errs := input.Validate(locale.LanguageEnglish); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileInvalid, errs)
	}

	record := db.UserProfile{
		DeviceID: deviceID,
		Height:   input.Height,
		Weight:   input.Weight,
		Goal:     NormalizeGoal(input.Goal),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"height", "weight", "goal", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return s.Get(deviceID)
}

// BMI 读取资料并计算仪表盘数据
func (s *ProfileService) BMI(deviceID string) (*db.UserProfile, BMIReading, error) {
	profile, err := s.Get(deviceID)
	if err != nil {
		return nil, BMIReading{}, err
	}
	return profile, ComputeBMI(profile.Height, profile.Weight), nil
}

// NormalizeGoal 未知目标一律视为 maintain
func NormalizeGoal(goal string) string {
	switch goal = strings.ToLower(strings.TrimSpace(goal)); goal {
	case db.GoalLose, db.GoalGain:
		return goal
	default:
		return db.GoalMaintain
	}
}
