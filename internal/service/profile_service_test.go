package service

import (
	"errors"
	"math"
	"testing"

	"github.com/mealstreak/internal/db"
)

func TestProfileServiceDefaultsAndSave(t *testing.T) {
	gdb, cleanup := setupMealTestDB(t)
	defer cleanup()

	svc := NewProfileService(gdb)

	profile, err := svc.Get(testDevice)
	if err != nil {
		t.Fatalf("get default profile failed: %v", err)
	}
	if profile.Height != 0 || profile.Goal != db.GoalMaintain {
		t.Fatalf("unexpected default profile: %+v", profile)
	}

	_, reading, err := svc.BMI(testDevice)
	if err != nil {
		t.Fatalf("bmi failed: %v", err)
	}
	if reading.Display != BMIPlaceholder {
		t.Fatalf("expected placeholder before height is set, got %q", reading.Display)
	}

	if _, err := svc.Save(testDevice, ProfileInput{Height: 180, Weight: 70, Goal: "LOSE"}); err != nil {
		t.Fatalf("save profile failed: %v", err)
	}
	saved, err := svc.Save(testDevice, ProfileInput{Height: 200, Weight: 100, Goal: "bulk"})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if saved.Height != 200 || saved.Weight != 100 || saved.Goal != db.GoalMaintain {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}

	var count int64
	gdb.Model(&db.UserProfile{}).Where("device_id = ?", testDevice).Count(&count)
	if count != 1 {
		t.Fatalf("expected one profile row per device, got %d", count)
	}

	_, reading, err = svc.BMI(testDevice)
	if err != nil {
		t.Fatalf("bmi failed: %v", err)
	}
	if reading.Display != "25.0" || reading.Status != BMIStatusOverweight {
		t.Fatalf("unexpected reading: %+v", reading)
	}
}

func TestProfileServiceRejectsNegativeValues(t *testing.T) {
	gdb, cleanup := setupMealTestDB(t)
	defer cleanup()

	svc := NewProfileService(gdb)
	if _, err := svc.Save(testDevice, ProfileInput{Height: -1, Weight: 60}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for height, got %v", err)
	}
	if _, err := svc.Save(testDevice, ProfileInput{Height: 170, Weight: -5}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid for weight, got %v", err)
	}
}

func TestProfileInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		input  ProfileInput
		fields []string
	}{
		{name: "valid", input: ProfileInput{Height: 175, Weight: 60}},
		{name: "empty profile", input: ProfileInput{}},
		{name: "tiny height", input: ProfileInput{Height: 1e-200, Weight: 70}, fields: []string{"height"}},
		{name: "height too large", input: ProfileInput{Height: 1000, Weight: 70}, fields: []string{"height"}},
		{name: "weight too large", input: ProfileInput{Height: 175, Weight: 1e308}, fields: []string{"weight"}},
		{name: "not a number", input: ProfileInput{Height: math.NaN(), Weight: math.NaN()}, fields: []string{"height", "weight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.input.Validate("en")
			if len(errs) != len(tt.fields) {
				t.Fatalf("expected errors on %v, got %v", tt.fields, errs)
			}
			for _, field := range tt.fields {
				if _, ok := errs[field]; !ok {
					t.Fatalf("expected error on %s, got %v", field, errs)
				}
			}
		})
	}
}

func TestProfileServiceRejectsOutOfRangeHeight(t *testing.T) {
	gdb, cleanup := setupMealTestDB(t)
	defer cleanup()

	svc := NewProfileService(gdb)
	if _, err := svc.Save(testDevice, ProfileInput{Height: 1e-200, Weight: 70}); !errors.Is(err, ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid, got %v", err)
	}
	profile, err := svc.Get(testDevice)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.Height != 0 {
		t.Fatalf("expected nothing saved, got height %v", profile.Height)
	}
}

func TestNormalizeGoal(t *testing.T) {
	tests := map[string]string{
		"lose":     db.GoalLose,
		" Gain ":   db.GoalGain,
		"maintain": db.GoalMaintain,
		"":         db.GoalMaintain,
		"cut":      db.GoalMaintain,
	}
	for input, expected := range tests {
		if got := NormalizeGoal(input); got != expected {
			t.Fatalf("goal %q: expected %s, got %s", input, expected, got)
		}
	}
}
