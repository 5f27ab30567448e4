package handler

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	deviceSessionKey = "device_id"
	deviceContextKey = "__device_id"
)

// DeviceSession 确保每个浏览器都有一个稳定的设备 ID，所有数据按设备隔离
func DeviceSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		id, _ := session.Get(deviceSessionKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			session.Set(deviceSessionKey, id)
			if err := session.Save(); err != nil {
				log.Printf("[device] failed to save session: %v", err)
			}
		}

		c.Set(deviceContextKey, id)
		c.Next()
	}
}

func deviceID(c *gin.Context) string {
	return c.GetString(deviceContextKey)
}
