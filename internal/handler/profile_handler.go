package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

type profilePayload struct {
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Goal   string  `json:"goal"`
}

// GetProfile 返回设备资料与 BMI
func (a *API) GetProfile(c *gin.Context) {
	profile, reading, err := a.profiles.BMI(deviceID(c))
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": serializeProfile(*profile), "bmi": reading})
}

// UpdateProfile 保存身高、体重与目标
func (a *API) UpdateProfile(c *gin.Context) {
	var payload profilePayload
	if !bindJSON(c, &payload) {
		return
	}

	input := service.ProfileInput{
		Height: payload.Height,
		Weight: payload.Weight,
		Goal:   payload.Goal,
	}
	if errs := input.Validate(requestLanguage(c)); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	profile, err := a.profiles.Save(deviceID(c), input)
	if err != nil {
		if errors.Is(err, service.ErrProfileInvalid) {
			respondMessage(c, http.StatusUnprocessableEntity, locale.MsgInvalidRequest)
			return
		}
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": serializeProfile(*profile),
		"bmi":     service.ComputeBMI(profile.Height, profile.Weight),
	})
}

// GetBMI 只返回仪表盘数据
func (a *API) GetBMI(c *gin.Context) {
	_, reading, err := a.profiles.BMI(deviceID(c))
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, reading)
}

func serializeProfile(profile db.UserProfile) gin.H {
	return gin.H{
		"height": profile.Height,
		"weight": profile.Weight,
		"goal":   service.NormalizeGoal(profile.Goal),
	}
}
