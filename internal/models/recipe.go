package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Title         string           `gorm:"size:100;not null" json:"title"`
	Description   string           `gorm:"size:500;not null" json:"description"`
	ImageURL      string           `gorm:"size:500" json:"image_url"`
	VideoURL      string           `gorm:"size:500" json:"video_url"`
	Ingredients   Ingredients      `gorm:"type:jsonb;not null" json:"ingredients"`
	Instructions  JSONBStringArray `gorm:"type:jsonb;not null" json:"instructions"`
	PrepTime      int              `gorm:"not null" json:"prep_time"`
	CookTime      int              `gorm:"not null" json:"cook_time"`
	Servings      int              `gorm:"not null" json:"servings"`
	Difficulty    Difficulty       `gorm:"size:10;not null" json:"difficulty"`
	Category      RecipeCategory   `gorm:"size:20;not null;index" json:"category"`
	Cuisine       Cuisine          `gorm:"size:20;not null" json:"cuisine"`
	Tags          JSONBStringArray `gorm:"type:jsonb" json:"tags"`
	Nutrition     *Nutrition       `gorm:"type:jsonb" json:"nutrition,omitempty"`
	IsAIGenerated bool             `gorm:"not null" json:"is_ai_generated"`
	AIPrompt      string           `gorm:"type:text" json:"ai_prompt,omitempty"`
	IsPublic      bool             `gorm:"not null;index" json:"is_public"`
	CreatedBy     uuid.UUID        `gorm:"type:uuid;not null;index" json:"created_by"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TotalTime is preparation plus cooking time in minutes
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

// RecipeLike marks that a user liked a recipe. One row per pair.
type RecipeLike struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RecipeLike) TableName() string {
	return "recipe_likes"
}

// RecipeSave marks that a user saved a recipe. One row per pair.
type RecipeSave struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RecipeSave) TableName() string {
	return "recipe_saves"
}

// RecipeRating is a user's rating of a recipe. A later rating replaces the earlier one.
type RecipeRating struct {
	RecipeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:500" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (RecipeRating) TableName() string {
	return "recipe_ratings"
}
