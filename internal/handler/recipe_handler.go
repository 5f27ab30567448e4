package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/db"
	"github.com/mealstreak/internal/locale"
	"github.com/mealstreak/internal/service"
)

type recipePayload struct {
	Name        string   `json:"name"`
	MealType    string   `json:"meal_type"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Ingredients []string `json:"ingredients"`
}

func (p recipePayload) input() service.RecipeInput {
	return service.RecipeInput{
		Name:        p.Name,
		MealType:    p.MealType,
		Calories:    p.Calories,
		Protein:     p.Protein,
		Carbs:       p.Carbs,
		Fat:         p.Fat,
		Ingredients: p.Ingredients,
	}
}

// ListRecipes 返回食谱本
func (a *API) ListRecipes(c *gin.Context) {
	items, err := a.recipes.List(deviceID(c), c.Query("search"))
	if err != nil {
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
		return
	}

	payload := make([]gin.H, 0, len(items))
	for _, item := range items {
		payload = append(payload, serializeRecipe(item))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": payload})
}

// GetRecipe 返回单个食谱
func (a *API) GetRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	item, err := a.recipes.Get(deviceID(c), id)
	if err != nil {
		handleRecipeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": serializeRecipe(*item)})
}

// CreateRecipe 新建食谱
func (a *API) CreateRecipe(c *gin.Context) {
	var payload recipePayload
	if !bindJSON(c, &payload) {
		return
	}

	item, err := a.recipes.Create(deviceID(c), payload.input())
	if err != nil {
		handleRecipeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": serializeRecipe(*item)})
}

// UpdateRecipe 更新食谱
func (a *API) UpdateRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	var payload recipePayload
	if !bindJSON(c, &payload) {
		return
	}

	item, err := a.recipes.Update(deviceID(c), id, payload.input())
	if err != nil {
		handleRecipeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": serializeRecipe(*item)})
}

// DeleteRecipe 删除食谱
func (a *API) DeleteRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	if err := a.recipes.Delete(deviceID(c), id); err != nil {
		handleRecipeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ApplyRecipe 返回用食谱预填后的表单
func (a *API) ApplyRecipe(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, locale.MsgInvalidRequest)
		return
	}

	form, err := a.recipes.Apply(deviceID(c), id, requestLanguage(c))
	if err != nil {
		handleRecipeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"form": form.Values()})
}

func serializeRecipe(item db.RecipeBookItem) gin.H {
	ingredients := item.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return gin.H{
		"id":          item.ID,
		"name":        item.Name,
		"meal_type":   item.MealType,
		"calories":    item.Calories,
		"protein":     item.Protein,
		"carbs":       item.Carbs,
		"fat":         item.Fat,
		"ingredients": ingredients,
	}
}

func handleRecipeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		respondMessage(c, http.StatusNotFound, locale.MsgRecipeNotFound)
	case errors.Is(err, service.ErrRecipeInvalid):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondMessage(c, http.StatusInternalServerError, locale.MsgInternal)
	}
}
