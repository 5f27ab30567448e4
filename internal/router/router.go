package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/handler"
)

const sessionName = "mealstreak_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 设备会话只用于区分本地数据，长期有效
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	apiGroup.Use(handler.DeviceSession())
	{
		apiGroup.GET("/days", api.ListDays)
		apiGroup.GET("/days/:date", api.GetDay)
		apiGroup.GET("/streak", api.GetStreak)

		apiGroup.POST("/meals", api.CreateMeal)
		apiGroup.POST("/meals/analyze", api.AnalyzeMeal)
		apiGroup.GET("/meals/:id/form", api.GetMealForm)
		apiGroup.PUT("/meals/:id", api.UpdateMeal)
		apiGroup.DELETE("/meals/:id", api.DeleteMeal)
		apiGroup.POST("/meal-form/preview", api.PreviewMealForm)

		apiGroup.GET("/profile", api.GetProfile)
		apiGroup.PUT("/profile", api.UpdateProfile)
		apiGroup.GET("/profile/bmi", api.GetBMI)

		apiGroup.GET("/recipes", api.ListRecipes)
		apiGroup.POST("/recipes", api.CreateRecipe)
		apiGroup.GET("/recipes/:id", api.GetRecipe)
		apiGroup.PUT("/recipes/:id", api.UpdateRecipe)
		apiGroup.DELETE("/recipes/:id", api.DeleteRecipe)
		apiGroup.POST("/recipes/:id/apply", api.ApplyRecipe)

		apiGroup.GET("/share-card", api.GetShareSummary)
		apiGroup.GET("/share-card.png", api.GetShareCardImage)
		apiGroup.POST("/share-card/publish", api.PublishShareCard)
	}

	// 其余请求交给静态资源与单页应用入口
	r.NoRoute(api.ServeSPA)

	return r
}
