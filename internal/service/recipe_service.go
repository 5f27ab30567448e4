package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mealstreak/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrRecipeNotFound 在指定食谱不存在时返回
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrRecipeInvalid 当食谱字段不合法时返回
	ErrRecipeInvalid = errors.New("invalid recipe")
)

// RecipeService 负责食谱本的增删改查
type RecipeService struct {
	db *gorm.DB
}

// RecipeInput 定义创建/更新食谱时可配置字段
type RecipeInput struct {
	Name        string
	MealType    string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Ingredients []string
}

// NewRecipeService 构造 RecipeService
func NewRecipeService(gdb *gorm.DB) *RecipeService {
	return &RecipeService{db: gdb}
}

// List 返回设备的全部食谱，支持名称搜索
func (s *RecipeService) List(deviceID, search string) ([]db.RecipeBookItem, error) {
	var items []db.RecipeBookItem

	query := s.db.Where("device_id = ?", deviceID)
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("name LIKE ?", fmt.Sprintf("%%%s%%", search))
	}

	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return items, nil
}

// Get 根据 ID 获取食谱
func (s *RecipeService) Get(deviceID string, id uint) (*db.RecipeBookItem, error) {
	var item db.RecipeBookItem
	if err := s.db.Where("device_id = ?", deviceID).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &item, nil
}

// Create 新建食谱
func (s *RecipeService) Create(deviceID string, input RecipeInput) (*db.RecipeBookItem, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	item := db.RecipeBookItem{DeviceID: deviceID}
	applyRecipeInput(&item, input)

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return &item, nil
}

// Update 更新食谱
func (s *RecipeService) Update(deviceID string, id uint, input RecipeInput) (*db.RecipeBookItem, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Get(deviceID, id)
	if err != nil {
		return nil, err
	}

	applyRecipeInput(existing, input)
	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return existing, nil
}

// Delete 删除食谱
func (s *RecipeService) Delete(deviceID string, id uint) error {
	result := s.db.Where("device_id = ?", deviceID).Delete(&db.RecipeBookItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Apply 用食谱预填一个新的餐食表单
func (s *RecipeService) Apply(deviceID string, id uint, language string) (*MealForm, error) {
	item, err := s.Get(deviceID, id)
	if err != nil {
		return nil, err
	}

	form := NewMealForm(language)
	form.ApplyRecipe(*item)
	return form, nil
}

func validateRecipeInput(input RecipeInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrRecipeInvalid)
	}
	for _, value := range []float64{input.Calories, input.Protein, input.Carbs, input.Fat} {
		if value < 0 {
			return fmt.Errorf("%w: nutrition values must not be negative", ErrRecipeInvalid)
		}
	}
	if mealType := strings.ToLower(strings.TrimSpace(input.MealType)); mealType != "" && !slices.Contains(db.MealTypes, mealType) {
		return fmt.Errorf("%w: unsupported meal type %s", ErrRecipeInvalid, input.MealType)
	}
	return nil
}

func applyRecipeInput(item *db.RecipeBookItem, input RecipeInput) {
	item.Name = strings.TrimSpace(input.Name)
	item.MealType = strings.ToLower(strings.TrimSpace(input.MealType))
	item.Protein = input.Protein
	item.Carbs = input.Carbs
	item.Fat = input.Fat
	item.Calories = input.Calories
	if item.Calories == 0 {
		item.Calories = DeriveCalories(input.Protein, input.Carbs, input.Fat)
	}
	item.Ingredients = cleanIngredients(input.Ingredients)
}
