package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrAnalysisInvalid 模型返回的内容无法解析为营养数据
var ErrAnalysisInvalid = errors.New("invalid meal analysis response")

const (
	mealAnalysisMaxTokens   = 400
	mealAnalysisTemperature = 0.2
	mealAnalysisPrompt      = `You are a nutrition assistant. Estimate the nutrition of the described meal.
Reply with a single JSON object using exactly these keys:
"calories" (kcal, number), "protein", "carbs", "fat" (grams, numbers),
"health_score" (integer 0-10, 10 is healthiest) and "reasoning" (short markdown explanation).`
)

// MealAnalysis 是模型对一餐的营养估算
type MealAnalysis struct {
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	HealthScore int     `json:"health_score"`
	Reasoning   string  `json:"reasoning"`
}

// MealAnalyzer 定义餐食分析能力，便于在 handler 中替换实现
type MealAnalyzer interface {
	Analyze(ctx context.Context, name string, ingredients []string) (*MealAnalysis, error)
}

// MealAnalysisService 基于大模型接口估算营养、健康评分与说明
type MealAnalysisService struct {
	client *aiChatClient
}

// NewMealAnalysisService 构造 MealAnalysisService
func NewMealAnalysisService(settings AISettings) *MealAnalysisService {
	return &MealAnalysisService{client: newAIChatClient(settings)}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *MealAnalysisService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetBaseURL 覆盖当前平台的 API 地址。
func (s *MealAnalysisService) SetBaseURL(base string) {
	if normalizeAIProvider(s.client.settings.Provider) == AIProviderDeepSeek {
		s.client.SetDeepSeekBaseURL(base)
		return
	}
	s.client.SetOpenAIBaseURL(base)
}

// Enabled 表示是否配置了可用的 API Key
func (s *MealAnalysisService) Enabled() bool {
	return s != nil && s.client.configured()
}

// Analyze 估算一餐的营养；未配置 API Key 时返回 ErrAIAPIKeyMissing
func (s *MealAnalysisService) Analyze(ctx context.Context, name string, ingredients []string) (*MealAnalysis, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: meal name is required", ErrAnalysisInvalid)
	}

	userPrompt := buildMealAnalysisPrompt(name, cleanIngredients(ingredients))
	logAIExchange("MEAL", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: mealAnalysisPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    mealAnalysisMaxTokens,
		Temperature:  mealAnalysisTemperature,
		JSONOutput:   true,
	})
	if err != nil {
		return nil, err
	}
	logAIExchange("MEAL", "response", result.Content)

	return parseMealAnalysis(result.Content)
}

func buildMealAnalysisPrompt(name string, ingredients []string) string {
	var builder strings.Builder
	builder.WriteString("Meal: ")
	builder.WriteString(name)
	if len(ingredients) > 0 {
		builder.WriteString("\nIngredients:\n")
		for _, ingredient := range ingredients {
			builder.WriteString("- ")
			builder.WriteString(ingredient)
			builder.WriteString("\n")
		}
	}
	return strings.TrimSpace(builder.String())
}

func parseMealAnalysis(content string) (*MealAnalysis, error) {
	content = strings.TrimSpace(content)
	// 部分模型仍会包一层 ```json 代码块
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	// 模型偶尔给出 7.5 这类小数评分，先按浮点解析再取整
	var raw struct {
		Calories    float64 `json:"calories"`
		Protein     float64 `json:"protein"`
		Carbs       float64 `json:"carbs"`
		Fat         float64 `json:"fat"`
		HealthScore float64 `json:"health_score"`
		Reasoning   string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisInvalid, err)
	}

	analysis := MealAnalysis{
		Calories:    raw.Calories,
		Protein:     raw.Protein,
		Carbs:       raw.Carbs,
		Fat:         raw.Fat,
		HealthScore: int(math.Round(min(max(raw.HealthScore, 0), 10))),
		Reasoning:   raw.Reasoning,
	}

	for _, value := range []float64{analysis.Calories, analysis.Protein, analysis.Carbs, analysis.Fat} {
		if value < 0 || math.IsNaN(value) {
			return nil, fmt.Errorf("%w: negative nutrition value", ErrAnalysisInvalid)
		}
	}
	if analysis.Calories == 0 {
		analysis.Calories = DeriveCalories(analysis.Protein, analysis.Carbs, analysis.Fat)
	}
	analysis.Calories = math.Round(analysis.Calories)
	analysis.Reasoning = strings.TrimSpace(analysis.Reasoning)

	return &analysis, nil
}
