package main

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/mealstreak/internal/config"
	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var dishes = map[string][]string{
	db.MealTypeBreakfast: {"Oatmeal with berries", "Scrambled eggs", "Greek yogurt bowl", "Avocado toast", "Pancakes"},
	db.MealTypeLunch:     {"Chicken rice bowl", "Tuna salad", "Beef noodle soup", "Veggie wrap", "Ramen"},
	db.MealTypeDinner:    {"Grilled salmon", "Pasta bolognese", "Tofu stir fry", "Steak and potatoes", "Dumplings"},
	db.MealTypeSnack:     {"Apple", "Protein bar", "Mixed nuts", "Banana", "Dark chocolate"},
}

var mealHours = map[string]int{
	db.MealTypeBreakfast: 8,
	db.MealTypeLunch:     12,
	db.MealTypeDinner:    19,
	db.MealTypeSnack:     16,
}

func main() {
	var (
		configPath string
		deviceID   string
		days       int
		skipRate   int
	)

	cmd := &cobra.Command{
		Use:   "seed_demo_data",
		Short: "Fill the meal log of one device with random demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(configPath, deviceID, days, skipRate)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "optional YAML/JSON config file")
	cmd.Flags().StringVar(&deviceID, "device", "", "device id to seed, a random one is generated when empty")
	cmd.Flags().IntVar(&days, "days", 30, "number of days ending today")
	cmd.Flags().IntVar(&skipRate, "skip", 15, "percentage of past days left without entries")

	if err := cmd.Execute(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func seed(configPath, deviceID string, days, skipRate int) error {
	if days <= 0 {
		return fmt.Errorf("days must be positive")
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	if err := db.Init(cfg.DatabasePath); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	fake := faker.New()
	if deviceID == "" {
		deviceID = fake.UUID().V4()
	}

	logs := service.NewMealLogService(db.DB)
	profiles := service.NewProfileService(db.DB)
	recipes := service.NewRecipeService(db.DB)

	if _, err := profiles.Save(deviceID, service.ProfileInput{
		Height: float64(fake.IntBetween(155, 195)),
		Weight: float64(fake.IntBetween(50, 100)),
		Goal:   fake.RandomStringElement([]string{db.GoalLose, db.GoalMaintain, db.GoalGain}),
	}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	for _, mealType := range db.MealTypes {
		if _, err := recipes.Create(deviceID, service.RecipeInput{
			Name:     fake.RandomStringElement(dishes[mealType]),
			MealType: mealType,
			Protein:  float64(fake.IntBetween(5, 40)),
			Carbs:    float64(fake.IntBetween(10, 80)),
			Fat:      float64(fake.IntBetween(2, 30)),
		}); err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
	}

	today := service.CalendarDay(time.Now())
	bar := progressbar.Default(int64(days), "seeding days")
	entries := 0

	for offset := days - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		_ = bar.Add(1)

		// 今天总是有记录，保证连续打卡不为 0
		if offset > 0 && fake.IntBetween(1, 100) <= skipRate {
			continue
		}

		for _, mealType := range db.MealTypes {
			if mealType == db.MealTypeSnack && fake.IntBetween(0, 1) == 0 {
				continue
			}

			form := service.NewMealForm(locale.LanguageEnglish)
			form.SetMealType(mealType)
			form.SetName(fake.RandomStringElement(dishes[mealType]))
			form.SetProtein(strconv.Itoa(fake.IntBetween(3, 45)))
			form.SetCarbs(strconv.Itoa(fake.IntBetween(5, 90)))
			form.SetFat(strconv.Itoa(fake.IntBetween(1, 35)))
			form.SetHealthScore(strconv.Itoa(fake.IntBetween(3, 10)))
			form.SetReasoning(fake.Lorem().Sentence(10))

			at := time.Date(day.Year(), day.Month(), day.Day(), mealHours[mealType], 0, 0, 0, day.Location())
			draft, errs := form.Submit(at)
			if errs != nil {
				return fmt.Errorf("generated meal is invalid: %w", errs)
			}
			if _, err := logs.AddEntry(deviceID, day.Format(service.LogDateFormat), *draft); err != nil {
				return fmt.Errorf("add entry: %w", err)
			}
			entries++
		}
	}
	_ = bar.Finish()

	streak, err := logs.Streak(deviceID, today)
	if err != nil {
		return err
	}

	fmt.Printf("\nSeeded %d meals over %d days for device %s\n", entries, days, deviceID)
	fmt.Printf("Current streak: %d, longest: %d\n", streak.Current, streak.Longest)
	return nil
}
