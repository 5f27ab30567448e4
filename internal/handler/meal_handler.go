package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

const defaultDayRange = 7

type mealPayload struct {
	Date           string      `json:"date"`
	MealType       string      `json:"meal_type"`
	Name           string      `json:"name"`
	Calories       *flexString `json:"calories"`
	CaloriesManual *bool       `json:"calories_manual"`
	Protein        flexString  `json:"protein"`
	Carbs          flexString  `json:"carbs"`
	Fat            flexString  `json:"fat"`
	Ingredients    []string    `json:"ingredients"`
	HealthScore    flexString  `json:"health_score"`
	Reasoning      string      `json:"reasoning"`
}

// buildMealForm 按用户最后一次操作的方式重放表单：
// calories_manual 未提供时，只要带了热量就视为手动输入
func buildMealForm(language string, payload mealPayload) *service.MealForm {
	form := service.NewMealForm(language)
	form.SetMealType(payload.MealType)
	form.SetName(payload.Name)
	form.SetIngredients(payload.Ingredients)
	form.SetHealthScore(payload.HealthScore.String())
	form.SetReasoning(payload.Reasoning)
	form.SetProtein(payload.Protein.String())
	form.SetCarbs(payload.Carbs.String())
	form.SetFat(payload.Fat.String())

	manual := payload.Calories != nil && strings.TrimSpace(payload.Calories.String()) != ""
	if payload.CaloriesManual != nil {
		manual = *payload.CaloriesManual
	}
	if manual {
		raw := ""
		if payload.Calories != nil {
			raw = payload.Calories.String()
		}
		form.SetCalories(raw)
	}

	return form
}

// PreviewMealForm 返回推导后的热量与校验结果，不写入日志
func (a *API) PreviewMealForm(c *gin.Context) {
	var payload mealPayload
	if !bindJSON(c, &payload) {
		return
	}

	form := buildMealForm(requestLanguage(c), payload)
	_, errs := form.Submit(time.Now())

	response := gin.H{
		"form":  form.Values(),
		"valid": len(errs) == 0,
	}
	if len(errs) > 0 {
		response["errors"] = errs
	}
	c.JSON(http.StatusOK, response)
}

// CreateMeal 校验表单并追加到指定日期
func (a *API) CreateMeal(c *gin.Context) {
	var payload mealPayload
	if !bindJSON(c, &payload) {
		return
	}

	date := strings.TrimSpace(payload.Date)
	if date == "" {
		today, ok := requestToday(c, "today")
		if !ok {
			return
		}
		date = today.Format(service.LogDateFormat)
	}

	draft, errs := buildMealForm(requestLanguage(c), payload).Submit(time.Now())
	if errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	entry, err := a.meals.AddEntry(deviceID(c), date, *draft)
	if err != nil {
		handleMealError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"date": date, "entry": serializeMealEntry(*entry)})
}

// UpdateMeal 按 id 替换餐食内容
func (a *API) UpdateMeal(c *gin.Context) {
	var payload mealPayload
	if !bindJSON(c, &payload) {
		return
	}

	draft, errs := buildMealForm(requestLanguage(c), payload).Submit(time.Now())
	if errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	entry, err := a.meals.ReplaceEntry(deviceID(c), c.Param("id"), *draft)
	if err != nil {
		handleMealError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": serializeMealEntry(*entry)})
}

// GetMealForm 返回用已有餐食回填的编辑表单
func (a *API) GetMealForm(c *gin.Context) {
	entry, err := a.meals.GetEntry(deviceID(c), c.Param("id"))
	if err != nil {
		handleMealError(c, err)
		return
	}

	form := service.NewMealForm(requestLanguage(c))
	form.ApplyEntry(*entry)
	c.JSON(http.StatusOK, gin.H{"entry": serializeMealEntry(*entry), "form": form.Values()})
}

// DeleteMeal 删除单条餐食
func (a *API) DeleteMeal(c *gin.Context) {
	if err := a.meals.DeleteEntry(deviceID(c), c.Param("id")); err != nil {
		handleMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetDay 返回某天的全部餐食及合计
func (a *API) GetDay(c *gin.Context) {
	dayLog, err := a.meals.Day(deviceID(c), c.Param("date"))
	if err != nil {
		handleMealError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializeDayLog(*dayLog))
}

// ListDays 返回区间内有记录的日期，默认最近 7 天
func (a *API) ListDays(c *gin.Context) {
	end, ok := requestToday(c, "end")
	if !ok {
		return
	}
	start := end.AddDate(0, 0, -(defaultDayRange - 1))
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		parsed, err := service.ParseLogDate(raw)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, locale.MsgInvalidDate)
			return
		}
		start = parsed
	}
	if end.Before(start) {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidDate)
		return
	}

	logs, err := a.meals.ListBetween(deviceID(c), start, end)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}

	days := make([]gin.H, 0, len(logs))
	for _, dayLog := range logs {
		days = append(days, serializeDayLog(dayLog))
	}

	c.JSON(http.StatusOK, gin.H{
		"range": gin.H{"start": start.Format(service.LogDateFormat), "end": end.Format(service.LogDateFormat)},
		"days":  days,
	})
}

// GetStreak 返回当前与最长连续记录天数
func (a *API) GetStreak(c *gin.Context) {
	today, ok := requestToday(c, "today")
	if !ok {
		return
	}

	streak, err := a.meals.Streak(deviceID(c), today)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, streak)
}

func serializeMealEntry(entry db.MealEntry) gin.H {
	ingredients := entry.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	item := gin.H{
		"id":          entry.EntryID,
		"meal_type":   entry.MealType,
		"name":        entry.Name,
		"calories":    entry.Calories,
		"protein":     entry.Protein,
		"carbs":       entry.Carbs,
		"fat":         entry.Fat,
		"ingredients": ingredients,
		"timestamp":   entry.Timestamp.Format(time.RFC3339),
	}
	if entry.HealthScore != nil {
		item["health_score"] = *entry.HealthScore
	}
	if entry.Reasoning != "" {
		item["reasoning"] = entry.Reasoning
		if rendered, err := renderMarkdown(entry.Reasoning); err == nil {
			item["reasoning_html"] = rendered
		}
	}
	return item
}

func serializeDayLog(dayLog db.DayLog) gin.H {
	entries := make([]gin.H, 0, len(dayLog.Entries))
	var calories, protein, carbs, fat float64
	for _, entry := range dayLog.Entries {
		entries = append(entries, serializeMealEntry(entry))
		calories += entry.Calories
		protein += entry.Protein
		carbs += entry.Carbs
		fat += entry.Fat
	}

	return gin.H{
		"date":    dayLog.Date,
		"entries": entries,
		"totals": gin.H{
			"calories": calories,
			"protein":  protein,
			"carbs":    carbs,
			"fat":      fat,
		},
	}
}

func handleMealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMealEntryNotFound):
		respondMessage(c, http.StatusNotFound, locale.MsgEntryNotFound)
	case errors.Is(err, service.ErrInvalidLogDate):
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidDate)
	default:
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
	}
}
