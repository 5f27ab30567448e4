package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

// GetShareSummary 返回截至 end 的 7 天周报数据
func (a *API) GetShareSummary(c *gin.Context) {
	summary, ok := a.loadShareSummary(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetShareCardImage 直接输出 PNG 卡片
func (a *API) GetShareCardImage(c *gin.Context) {
	summary, ok := a.loadShareSummary(c)
	if !ok {
		return
	}

	card, err := service.RenderShareCard(summary)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", card)
}

// PublishShareCard 渲染卡片并上传到对象存储，返回分享链接
func (a *API) PublishShareCard(c *gin.Context) {
	if !a.publisher.Enabled() {
		respondMessage(c, http.StatusServiceUnavailable, locale.MsgShareUnavailable)
		return
	}

	summary, ok := a.loadShareSummary(c)
	if !ok {
		return
	}

	card, err := service.RenderShareCard(summary)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}

	url, err := a.publisher.Publish(c.Request.Context(), deviceID(c), card)
	if err != nil {
		if errors.Is(err, service.ErrShareBucketMissing) {
			respondMessage(c, http.StatusServiceUnavailable, locale.MsgShareUnavailable)
			return
		}
		log.Printf("[share] publish failed: %v", err)
		respondMessage(c, http.StatusBadGateway, locale.MsgShareFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "summary": summary})
}

func (a *API) loadShareSummary(c *gin.Context) (*service.WeeklySummary, bool) {
	end, ok := requestToday(c, "end")
	if !ok {
		return nil, false
	}

	summary, err := a.cards.Summary(deviceID(c), end)
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return nil, false
	}
	return summary, true
}
