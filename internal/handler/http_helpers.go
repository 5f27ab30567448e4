package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondMessage 按请求语言输出目录中的错误提示
func respondMessage(c *gin.Context, status int, key string) {
	respondError(c, status, locale.Message(requestLanguage(c), key))
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// requestToday 优先使用客户端传来的本地日期，缺省时取服务器当天
func requestToday(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return service.CalendarDay(time.Now()), true
	}

	day, err := service.ParseLogDate(raw)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidDate)
		return time.Time{}, false
	}
	return day, true
}

// flexString 接受 JSON 数字、字符串或 null，保留用户原始输入
type flexString string

func (v *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*v = ""
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = flexString(s)
	default:
		*v = flexString(trimmed)
	}
	return nil
}

func (v flexString) String() string {
	return string(v)
}
