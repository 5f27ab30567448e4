package locale

// Pick returns the text matching the request language, defaulting to English.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageChinese {
		if chinese != "" {
			return chinese
		}
		return english
	}
	if english != "" {
		return english
	}
	return chinese
}

// Message keys shared by validation and HTTP error responses.
const (
	MsgNameRequired      = "name_required"
	MsgCaloriesPositive  = "calories_positive"
	MsgMacroNonNegative  = "macro_non_negative"
	MsgMealTypeInvalid   = "meal_type_invalid"
	MsgHealthScoreRange  = "health_score_range"
	MsgHeightNonNegative = "height_non_negative"
	MsgWeightNonNegative = "weight_non_negative"
	MsgHeightRange       = "height_range"
	MsgWeightRange       = "weight_range"
	MsgInvalidRequest    = "invalid_request"
	MsgInvalidDate       = "invalid_date"
	MsgEntryNotFound     = "entry_not_found"
	MsgRecipeNotFound    = "recipe_not_found"
	MsgAIUnavailable     = "ai_unavailable"
	MsgAIFailed          = "ai_failed"
	MsgShareUnavailable  = "share_unavailable"
	MsgShareFailed       = "share_failed"
	MsgInternal          = "internal"
)

var catalog = map[string][2]string{
	MsgNameRequired:      {"Name is required", "请填写名称"},
	MsgCaloriesPositive:  {"Calories must be a positive number", "热量必须为正数"},
	MsgMacroNonNegative:  {"Must be a number greater than or equal to 0", "必须为不小于 0 的数字"},
	MsgMealTypeInvalid:   {"Meal type must be breakfast, lunch, dinner or snack", "餐次必须为早餐、午餐、晚餐或加餐"},
	MsgHealthScoreRange:  {"Health score must be a whole number from 0 to 10", "健康评分必须为 0 到 10 的整数"},
	MsgHeightNonNegative: {"Height must be a number greater than or equal to 0", "身高必须为不小于 0 的数字"},
	MsgWeightNonNegative: {"Weight must be a number greater than or equal to 0", "体重必须为不小于 0 的数字"},
	MsgHeightRange:       {"Height must be between 30 and 300 cm", "身高必须在 30 到 300 厘米之间"},
	MsgWeightRange:       {"Weight must be at most 700 kg", "体重不能超过 700 千克"},
	MsgInvalidRequest:    {"Invalid request", "请求参数不合法"},
	MsgInvalidDate:       {"Invalid date, expected yyyy-MM-dd", "无效的日期，格式应为 yyyy-MM-dd"},
	MsgEntryNotFound:     {"Meal entry not found", "餐食记录不存在"},
	MsgRecipeNotFound:    {"Recipe not found", "食谱不存在"},
	MsgAIUnavailable:     {"Meal analysis is not configured", "未配置餐食分析服务"},
	MsgAIFailed:          {"Meal analysis failed, please try again later", "餐食分析失败，请稍后重试"},
	MsgShareUnavailable:  {"Share card publishing is not configured", "未配置分享卡片存储"},
	MsgShareFailed:       {"Failed to publish share card", "分享卡片上传失败"},
	MsgInternal:          {"Operation failed", "操作失败"},
}

// Message looks up a catalog entry; unknown keys are returned unchanged.
func Message(language, key string) string {
	texts, ok := catalog[key]
	if !ok {
		return key
	}
	return Pick(language, texts[0], texts[1])
}
