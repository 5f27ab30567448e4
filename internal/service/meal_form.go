package service

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
)

// 表单字段名，与 JSON 字段保持一致
const (
	FieldMealType    = "meal_type"
	FieldName        = "name"
	FieldCalories    = "calories"
	FieldProtein     = "protein"
	FieldCarbs       = "carbs"
	FieldFat         = "fat"
	FieldHealthScore = "health_score"
)

// FieldErrors 字段名到错误提示的映射
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e[key])
	}
	return "invalid meal entry: " + strings.Join(parts, "; ")
}

// MealDraft 是通过校验的餐食内容，id 与时间戳由日志存储分配
type MealDraft struct {
	MealType    string
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Ingredients []string
	HealthScore *int
	Reasoning   string
}

// MealForm 保存一次表单会话的原始输入。
// 用户未手动修改热量前，每次修改三大营养素都会重新推导热量；
// 一旦直接编辑热量，本次会话内不再自动推导，直到调用 ResetCalories。
type MealForm struct {
	language       string
	mealType       string
	name           string
	calories       string
	protein        string
	carbs          string
	fat            string
	ingredients    []string
	healthScore    string
	reasoning      string
	caloriesManual bool
}

// NewMealForm 创建空表单，language 决定错误提示语言
func NewMealForm(language string) *MealForm {
	return &MealForm{language: language}
}

func (f *MealForm) SetMealType(value string) { f.mealType = value }
func (f *MealForm) SetName(value string)     { f.name = value }
func (f *MealForm) SetReasoning(value string) {
	f.reasoning = value
}

func (f *MealForm) SetHealthScore(value string) {
	f.healthScore = value
}

func (f *MealForm) SetIngredients(values []string) {
	f.ingredients = append([]string(nil), values...)
}

func (f *MealForm) SetProtein(value string) {
	f.protein = value
	f.recalculate()
}

func (f *MealForm) SetCarbs(value string) {
	f.carbs = value
	f.recalculate()
}

func (f *MealForm) SetFat(value string) {
	f.fat = value
	f.recalculate()
}

// SetCalories 记录用户直接输入的热量，并关闭自动推导
func (f *MealForm) SetCalories(value string) {
	f.calories = value
	f.caloriesManual = true
}

// ResetCalories 重新开启自动推导并立即按当前营养素计算
func (f *MealForm) ResetCalories() {
	f.caloriesManual = false
	f.recalculate()
}

// Calories 返回当前展示的热量文本
func (f *MealForm) Calories() string {
	return f.calories
}

// CaloriesManual 表示热量是否由用户手动输入
func (f *MealForm) CaloriesManual() bool {
	return f.caloriesManual
}

// MealFormValues 是表单当前展示的全部字段
type MealFormValues struct {
	MealType       string   `json:"meal_type"`
	Name           string   `json:"name"`
	Calories       string   `json:"calories"`
	CaloriesManual bool     `json:"calories_manual"`
	Protein        string   `json:"protein"`
	Carbs          string   `json:"carbs"`
	Fat            string   `json:"fat"`
	Ingredients    []string `json:"ingredients"`
	HealthScore    string   `json:"health_score"`
	Reasoning      string   `json:"reasoning"`
}

// Values 返回表单快照
func (f *MealForm) Values() MealFormValues {
	ingredients := append([]string{}, f.ingredients...)
	return MealFormValues{
		MealType:       f.mealType,
		Name:           f.name,
		Calories:       f.calories,
		CaloriesManual: f.caloriesManual,
		Protein:        f.protein,
		Carbs:          f.carbs,
		Fat:            f.fat,
		Ingredients:    ingredients,
		HealthScore:    f.healthScore,
		Reasoning:      f.reasoning,
	}
}

// ApplyRecipe 用食谱模板预填表单，模板热量视为手动值
func (f *MealForm) ApplyRecipe(item db.RecipeBookItem) {
	f.name = item.Name
	if strings.TrimSpace(item.MealType) != "" {
		f.mealType = item.MealType
	}
	f.protein = formatAmount(item.Protein)
	f.carbs = formatAmount(item.Carbs)
	f.fat = formatAmount(item.Fat)
	f.ingredients = append([]string(nil), item.Ingredients...)
	if item.Calories > 0 {
		f.SetCalories(formatAmount(item.Calories))
	} else {
		f.ResetCalories()
	}
}

// ApplyEntry 编辑已有餐食时回填表单
func (f *MealForm) ApplyEntry(entry db.MealEntry) {
	f.mealType = entry.MealType
	f.name = entry.Name
	f.protein = formatAmount(entry.Protein)
	f.carbs = formatAmount(entry.Carbs)
	f.fat = formatAmount(entry.Fat)
	f.ingredients = append([]string(nil), entry.Ingredients...)
	f.reasoning = entry.Reasoning
	f.healthScore = ""
	if entry.HealthScore != nil {
		f.healthScore = strconv.Itoa(*entry.HealthScore)
	}
	f.SetCalories(formatAmount(entry.Calories))
}

// Submit 校验表单，返回草稿或字段错误，二者不会同时出现。
// now 用于在未选择餐次时按时间推断默认餐次。
func (f *MealForm) Submit(now time.Time) (*MealDraft, FieldErrors) {
	errs := FieldErrors{}
	draft := &MealDraft{
		Name:        strings.TrimSpace(f.name),
		Ingredients: cleanIngredients(f.ingredients),
		Reasoning:   strings.TrimSpace(f.reasoning),
	}

	if draft.Name == "" {
		errs[FieldName] = locale.Message(f.language, locale.MsgNameRequired)
	}

	mealType := strings.ToLower(strings.TrimSpace(f.mealType))
	switch {
	case mealType == "":
		draft.MealType = DefaultMealType(now)
	case slices.Contains(db.MealTypes, mealType):
		draft.MealType = mealType
	default:
		errs[FieldMealType] = locale.Message(f.language, locale.MsgMealTypeInvalid)
	}

	calories, ok := parseAmount(f.calories)
	if !ok || calories <= 0 {
		errs[FieldCalories] = locale.Message(f.language, locale.MsgCaloriesPositive)
	}
	draft.Calories = calories

	for _, macro := range []struct {
		field string
		raw   string
		dst   *float64
	}{
		{FieldProtein, f.protein, &draft.Protein},
		{FieldCarbs, f.carbs, &draft.Carbs},
		{FieldFat, f.fat, &draft.Fat},
	} {
		if strings.TrimSpace(macro.raw) == "" {
			continue
		}
		value, ok := parseAmount(macro.raw)
		if !ok || value < 0 {
			errs[macro.field] = locale.Message(f.language, locale.MsgMacroNonNegative)
			continue
		}
		*macro.dst = value
	}

	if raw := strings.TrimSpace(f.healthScore); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil || score < 0 || score > 10 {
			errs[FieldHealthScore] = locale.Message(f.language, locale.MsgHealthScoreRange)
		} else {
			draft.HealthScore = &score
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return draft, nil
}

// DeriveCalories 按 4/4/9 系数计算热量并四舍五入到整数
func DeriveCalories(protein, carbs, fat float64) float64 {
	return math.Round(protein*4 + carbs*4 + fat*9)
}

// DefaultMealType 按时间段推断餐次
func DefaultMealType(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 11:
		return db.MealTypeBreakfast
	case hour < 16:
		return db.MealTypeLunch
	case hour < 21:
		return db.MealTypeDinner
	default:
		return db.MealTypeSnack
	}
}

func (f *MealForm) recalculate() {
	if f.caloriesManual {
		return
	}

	total := DeriveCalories(macroOrZero(f.protein), macroOrZero(f.carbs), macroOrZero(f.fat))
	if total <= 0 {
		f.calories = ""
		return
	}
	f.calories = strconv.FormatFloat(total, 'f', 0, 64)
}

func macroOrZero(raw string) float64 {
	value, ok := parseAmount(raw)
	if !ok || value < 0 {
		return 0
	}
	return value
}

func parseAmount(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func formatAmount(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func cleanIngredients(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
