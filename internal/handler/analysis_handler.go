package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

type analysisPayload struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// AnalyzeMeal 调用大模型估算营养并返回可直接填入表单的结果
func (a *API) AnalyzeMeal(c *gin.Context) {
	if a.analyzer == nil {
		respondMessage(c, http.StatusServiceUnavailable, locale.MsgAIUnavailable)
		return
	}

	var payload analysisPayload
	if !bindJSON(c, &payload) {
		return
	}

	analysis, err := a.analyzer.Analyze(c.Request.Context(), payload.Name, payload.Ingredients)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAIAPIKeyMissing):
			respondMessage(c, http.StatusServiceUnavailable, locale.MsgAIUnavailable)
		case errors.Is(err, service.ErrAnalysisInvalid):
			respondMessage(c, http.StatusBadGateway, locale.MsgAIFailed)
		default:
			log.Printf("[analysis] failed: %v", err)
			respondMessage(c, http.StatusBadGateway, locale.MsgAIFailed)
		}
		return
	}

	response := gin.H{"analysis": analysis}
	if analysis.Reasoning != "" {
		if rendered, err := renderMarkdown(analysis.Reasoning); err == nil {
			response["reasoning_html"] = rendered
		}
	}
	c.JSON(http.StatusOK, response)
}
