package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mealstreak/internal/db"
)

const testDevice = "0f8fad5b-d9cb-469f-a165-70867728950e"

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestMealLogService(t *testing.T) (*MealLogService, func()) {
	t.Helper()
	gdb, cleanup := setupMealTestDB(t)
	svc := NewMealLogService(gdb)
	svc.SetClock(fixedClock)
	return svc, cleanup
}

func sampleDraft(name string, calories float64) MealDraft {
	return MealDraft{
		MealType:    db.MealTypeLunch,
		Name:        name,
		Calories:    calories,
		Protein:     10,
		Ingredients: []string{"rice"},
	}
}

func TestMealLogServiceAddEntryCreatesSingleDayLog(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	first, err := svc.AddEntry(testDevice, "2024-06-01", sampleDraft("Oats", 300))
	if err != nil {
		t.Fatalf("add first entry failed: %v", err)
	}
	if _, err := svc.AddEntry(testDevice, "2024-06-01", sampleDraft("Soup", 200)); err != nil {
		t.Fatalf("add second entry failed: %v", err)
	}

	if first.EntryID == "" {
		t.Fatalf("expected generated entry id")
	}
	if !first.Timestamp.Equal(fixedClock()) {
		t.Fatalf("expected timestamp from clock, got %v", first.Timestamp)
	}

	var count int64
	if err := db.DB.Model(&db.DayLog{}).Where("device_id = ? AND date = ?", testDevice, "2024-06-01").Count(&count).Error; err != nil {
		t.Fatalf("count day logs failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one day log, got %d", count)
	}

	day, err := svc.Day(testDevice, "2024-06-01")
	if err != nil {
		t.Fatalf("get day failed: %v", err)
	}
	if len(day.Entries) != 2 || day.Entries[0].Name != "Oats" || day.Entries[1].Name != "Soup" {
		t.Fatalf("expected entries in insertion order, got %+v", day.Entries)
	}
	if len(day.Entries[0].Ingredients) != 1 || day.Entries[0].Ingredients[0] != "rice" {
		t.Fatalf("expected ingredients to round-trip, got %v", day.Entries[0].Ingredients)
	}
}

func TestMealLogServiceRejectsInvalidDate(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	for _, date := range []string{"", "2024-13-01", "06/01/2024"} {
		if _, err := svc.AddEntry(testDevice, date, sampleDraft("Oats", 300)); !errors.Is(err, ErrInvalidLogDate) {
			t.Fatalf("date %q: expected ErrInvalidLogDate, got %v", date, err)
		}
	}

	if _, err := svc.AddEntry("", "2024-06-01", sampleDraft("Oats", 300)); !errors.Is(err, ErrDeviceRequired) {
		t.Fatalf("expected ErrDeviceRequired, got %v", err)
	}
}

func TestMealLogServiceDayWithoutLog(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	day, err := svc.Day(testDevice, "2024-01-01")
	if err != nil {
		t.Fatalf("expected empty day, got %v", err)
	}
	if day.Date != "2024-01-01" || len(day.Entries) != 0 {
		t.Fatalf("unexpected empty day: %+v", day)
	}
}

func TestMealLogServiceReplaceEntryKeepsIdentity(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	created, err := svc.AddEntry(testDevice, "2024-06-01", sampleDraft("Oats", 300))
	if err != nil {
		t.Fatalf("add entry failed: %v", err)
	}

	svc.SetClock(func() time.Time { return fixedClock().Add(time.Hour) })
	score := 9
	replacement := sampleDraft("Overnight oats", 350)
	replacement.HealthScore = &score
	updated, err := svc.ReplaceEntry(testDevice, created.EntryID, replacement)
	if err != nil {
		t.Fatalf("replace entry failed: %v", err)
	}

	if updated.EntryID != created.EntryID {
		t.Fatalf("entry id changed from %s to %s", created.EntryID, updated.EntryID)
	}
	if !updated.Timestamp.Equal(created.Timestamp) {
		t.Fatalf("timestamp should not change on replace")
	}

	stored, err := svc.GetEntry(testDevice, created.EntryID)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if stored.Name != "Overnight oats" || stored.Calories != 350 || stored.HealthScore == nil || *stored.HealthScore != 9 {
		t.Fatalf("unexpected stored entry: %+v", stored)
	}
}

func TestMealLogServiceScopesByDevice(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	created, err := svc.AddEntry(testDevice, "2024-06-01", sampleDraft("Oats", 300))
	if err != nil {
		t.Fatalf("add entry failed: %v", err)
	}

	other := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if _, err := svc.GetEntry(other, created.EntryID); !errors.Is(err, ErrMealEntryNotFound) {
		t.Fatalf("expected other device to miss entry, got %v", err)
	}
	if err := svc.DeleteEntry(other, created.EntryID); !errors.Is(err, ErrMealEntryNotFound) {
		t.Fatalf("expected other device delete to fail, got %v", err)
	}

	day, err := svc.Day(other, "2024-06-01")
	if err != nil {
		t.Fatalf("get day failed: %v", err)
	}
	if len(day.Entries) != 0 {
		t.Fatalf("expected no entries for other device, got %d", len(day.Entries))
	}
}

func TestMealLogServiceDeleteKeepsEmptyDayOutOfStreak(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	today := time.Date(2024, 6, 3, 20, 0, 0, 0, time.Local)
	for _, date := range []string{"2024-06-01", "2024-06-02"} {
		if _, err := svc.AddEntry(testDevice, date, sampleDraft("Oats", 300)); err != nil {
			t.Fatalf("add entry for %s failed: %v", date, err)
		}
	}
	todayEntry, err := svc.AddEntry(testDevice, "2024-06-03", sampleDraft("Soup", 200))
	if err != nil {
		t.Fatalf("add today entry failed: %v", err)
	}

	streak, err := svc.Streak(testDevice, today)
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak.Current != 3 || streak.Longest != 3 {
		t.Fatalf("expected 3/3, got %+v", streak)
	}

	if err := svc.DeleteEntry(testDevice, todayEntry.EntryID); err != nil {
		t.Fatalf("delete entry failed: %v", err)
	}
	if err := svc.DeleteEntry(testDevice, todayEntry.EntryID); !errors.Is(err, ErrMealEntryNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}

	index, err := svc.DayIndex(testDevice)
	if err != nil {
		t.Fatalf("day index failed: %v", err)
	}
	if count, ok := index["2024-06-03"]; !ok || count != 0 {
		t.Fatalf("expected empty day log to remain with 0 entries, got %v (present=%v)", count, ok)
	}

	streak, err = svc.Streak(testDevice, today)
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if streak.Current != 2 {
		t.Fatalf("expected streak to fall back to yesterday with 2, got %d", streak.Current)
	}
}

func TestMealLogServiceListBetween(t *testing.T) {
	svc, cleanup := newTestMealLogService(t)
	defer cleanup()

	for _, date := range []string{"2024-05-30", "2024-06-01", "2024-06-05"} {
		if _, err := svc.AddEntry(testDevice, date, sampleDraft("Oats", 300)); err != nil {
			t.Fatalf("add entry for %s failed: %v", date, err)
		}
	}

	start, _ := ParseLogDate("2024-05-31")
	end, _ := ParseLogDate("2024-06-05")
	logs, err := svc.ListBetween(testDevice, start, end)
	if err != nil {
		t.Fatalf("list between failed: %v", err)
	}
	if len(logs) != 2 || logs[0].Date != "2024-06-01" || logs[1].Date != "2024-06-05" {
		t.Fatalf("unexpected logs: %+v", logs)
	}

	if _, err := svc.ListBetween(testDevice, end, start); err == nil {
		t.Fatalf("expected error for reversed range")
	}
}
