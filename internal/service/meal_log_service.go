package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mealstreak/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrMealEntryNotFound 在指定餐食不存在或不属于当前设备时返回
	ErrMealEntryNotFound = errors.New("meal entry not found")
	// ErrInvalidLogDate 当日期不是 yyyy-MM-dd 时返回
	ErrInvalidLogDate = errors.New("invalid log date")
	// ErrDeviceRequired 缺少设备标识时返回
	ErrDeviceRequired = errors.New("device id is required")
)

// MealLogService 负责按日期存取餐食记录，并为连续打卡统计提供索引
type MealLogService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMealLogService 构造 MealLogService
func NewMealLogService(gdb *gorm.DB) *MealLogService {
	return &MealLogService{db: gdb, now: time.Now}
}

// SetClock 替换时间来源，便于测试固定时间戳
func (s *MealLogService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// AddEntry 把餐食追加到指定日期，必要时创建当天的 DayLog
func (s *MealLogService) AddEntry(deviceID, date string, draft MealDraft) (*db.MealEntry, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, ErrDeviceRequired
	}
	day, err := normalizeLogDate(date)
	if err != nil {
		return nil, err
	}

	var entry db.MealEntry
	err = s.db.Transaction(func(tx *gorm.DB) error {
		dayLog, err := upsertDayLog(tx, deviceID, day)
		if err != nil {
			return err
		}

		entry = db.MealEntry{
			EntryID:   uuid.NewString(),
			DayLogID:  dayLog.ID,
			DeviceID:  deviceID,
			Timestamp: s.now(),
		}
		applyDraft(&entry, draft)

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create meal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ReplaceEntry 按 id 整体替换餐食内容，id 与创建时间保持不变
func (s *MealLogService) ReplaceEntry(deviceID, entryID string, draft MealDraft) (*db.MealEntry, error) {
	existing, err := s.GetEntry(deviceID, entryID)
	if err != nil {
		return nil, err
	}

	applyDraft(existing, draft)
	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("replace meal entry: %w", err)
	}
	return existing, nil
}

// GetEntry 返回单条餐食
func (s *MealLogService) GetEntry(deviceID, entryID string) (*db.MealEntry, error) {
	var entry db.MealEntry
	if err := s.db.Where("device_id = ? AND entry_id = ?", deviceID, strings.TrimSpace(entryID)).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealEntryNotFound
		}
		return nil, fmt.Errorf("get meal entry: %w", err)
	}
	return &entry, nil
}

// DeleteEntry 删除餐食，当天的 DayLog 保留
func (s *MealLogService) DeleteEntry(deviceID, entryID string) error {
	result := s.db.Unscoped().
		Where("device_id = ? AND entry_id = ?", deviceID, strings.TrimSpace(entryID)).
		Delete(&db.MealEntry{})
	if result.Error != nil {
		return fmt.Errorf("delete meal entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMealEntryNotFound
	}
	return nil
}

// Day 返回某天的记录；当天没有 DayLog 时返回一个空记录
func (s *MealLogService) Day(deviceID, date string) (*db.DayLog, error) {
	day, err := normalizeLogDate(date)
	if err != nil {
		return nil, err
	}

	var dayLog db.DayLog
	err = s.db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("meal_entries.id ASC")
	}).Where("device_id = ? AND date = ?", deviceID, day).First(&dayLog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &db.DayLog{DeviceID: deviceID, Date: day, Entries: []db.MealEntry{}}, nil
		}
		return nil, fmt.Errorf("get day log: %w", err)
	}
	return &dayLog, nil
}

// ListBetween 返回区间内已有的 DayLog，按日期升序
func (s *MealLogService) ListBetween(deviceID string, start, end time.Time) ([]db.DayLog, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end before start")
	}

	var logs []db.DayLog
	if err := s.db.Preload("Entries", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("meal_entries.id ASC")
	}).Where("device_id = ?", deviceID).
		Where("date BETWEEN ? AND ?", start.Format(LogDateFormat), end.Format(LogDateFormat)).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list day logs: %w", err)
	}
	return logs, nil
}

// DayIndex 汇总每个 DayLog 的条目数，空 DayLog 计为 0
func (s *MealLogService) DayIndex(deviceID string) (DayIndex, error) {
	var rows []struct {
		Date    string
		Entries int
	}
	if err := s.db.Model(&db.DayLog{}).
		Select("day_logs.date AS date, COUNT(meal_entries.id) AS entries").
		Joins("LEFT JOIN meal_entries ON meal_entries.day_log_id = day_logs.id AND meal_entries.deleted_at IS NULL").
		Where("day_logs.device_id = ?", deviceID).
		Group("day_logs.date").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("build day index: %w", err)
	}

	index := make(DayIndex, len(rows))
	for _, row := range rows {
		index[row.Date] = row.Entries
	}
	return index, nil
}

// Streak 计算当前连续记录天数与最长连续天数
func (s *MealLogService) Streak(deviceID string, today time.Time) (*StreakResult, error) {
	index, err := s.DayIndex(deviceID)
	if err != nil {
		return nil, err
	}

	return &StreakResult{
		Today:   today.Format(LogDateFormat),
		Current: CalculateStreak(index, today),
		Longest: LongestStreak(index),
	}, nil
}

func upsertDayLog(tx *gorm.DB, deviceID, day string) (*db.DayLog, error) {
	record := db.DayLog{DeviceID: deviceID, Date: day}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert day log: %w", err)
	}

	if err := tx.Where("device_id = ? AND date = ?", deviceID, day).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload day log: %w", err)
	}
	return &record, nil
}

func applyDraft(entry *db.MealEntry, draft MealDraft) {
	entry.MealType = draft.MealType
	entry.Name = draft.Name
	entry.Calories = draft.Calories
	entry.Protein = draft.Protein
	entry.Carbs = draft.Carbs
	entry.Fat = draft.Fat
	entry.Ingredients = append([]string{}, draft.Ingredients...)
	entry.HealthScore = draft.HealthScore
	entry.Reasoning = draft.Reasoning
}

func normalizeLogDate(value string) (string, error) {
	day, err := ParseLogDate(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLogDate, value)
	}
	return day.Format(LogDateFormat), nil
}
