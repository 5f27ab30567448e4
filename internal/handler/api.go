package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	meals     *service.MealLogService
	profiles  *service.ProfileService
	recipes   *service.RecipeService
	cards     *service.ShareCardService
	publisher *service.SharePublisher
	analyzer  service.MealAnalyzer
	staticDir string
}

// Options carries the optional collaborators of the API.
type Options struct {
	StaticDir string
	Analyzer  service.MealAnalyzer
	Publisher *service.SharePublisher
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	meals := service.NewMealLogService(gdb)
	profiles := service.NewProfileService(gdb)

	return &API{
		meals:     meals,
		profiles:  profiles,
		recipes:   service.NewRecipeService(gdb),
		cards:     service.NewShareCardService(meals, profiles),
		publisher: opts.Publisher,
		analyzer:  opts.Analyzer,
		staticDir: opts.StaticDir,
	}
}

func requestLanguage(c *gin.Context) string {
	return locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
}
