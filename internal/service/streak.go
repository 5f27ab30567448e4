package service

import (
	"slices"
	"time"
)

// LogDateFormat 是 DayLog 的键格式
const LogDateFormat = "2006-01-02"

// DayIndex 记录每个日期的餐食条数，是连续打卡计算的唯一输入
type DayIndex map[string]int

// Logged 判断某天是否至少记录了一条餐食；有 DayLog 但没有条目同样视为未记录
func (idx DayIndex) Logged(day time.Time) bool {
	return idx[day.Format(LogDateFormat)] > 0
}

// StreakResult 汇总当前连续天数与历史最长连续天数
type StreakResult struct {
	Today   string `json:"today"`
	Current int    `json:"current"`
	Longest int    `json:"longest"`
}

// CalculateStreak 从今天（今天尚未记录则从昨天）向前数连续有记录的天数。
// 今天和昨天都没有记录时直接返回 0。
func CalculateStreak(index DayIndex, today time.Time) int {
	anchor := CalendarDay(today)
	if !index.Logged(anchor) {
		anchor = anchor.AddDate(0, 0, -1)
		if !index.Logged(anchor) {
			return 0
		}
	}

	count := 0
	for index.Logged(anchor) {
		count++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return count
}

// LongestStreak 返回索引中最长的连续记录天数
func LongestStreak(index DayIndex) int {
	days := make([]time.Time, 0, len(index))
	for key, count := range index {
		if count <= 0 {
			continue
		}
		day, err := time.ParseInLocation(LogDateFormat, key, time.UTC)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})

	longest := 1
	current := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	return longest
}

// CalendarDay 取 t 在其所在时区的日历日期，返回该日期的 UTC 零点。
// 日期加减都在 UTC 上做，夏令时在零点切换的时区也不会跳过或重复某一天。
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseLogDate 解析 yyyy-MM-dd，返回该日期的 UTC 零点
func ParseLogDate(value string) (time.Time, error) {
	return time.ParseInLocation(LogDateFormat, value, time.UTC)
}
