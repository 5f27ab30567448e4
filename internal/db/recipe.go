package db

import "gorm.io/gorm"

// RecipeBookItem 是可复用的营养模板，选择后预填到餐食表单。
// 与 MealEntry 生命周期独立，删除模板不会影响已记录的餐食。
type RecipeBookItem struct {
	gorm.Model
	DeviceID    string `gorm:"size:36;index"`
	Name        string `gorm:"not null"`
	MealType    string `gorm:"size:16"`
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	Ingredients []string `gorm:"serializer:json"`
}

func (RecipeBookItem) TableName() string {
	return "recipe_book_items"
}
