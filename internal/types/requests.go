package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pageza/despensa/backend/internal/models"
)

// Auth

type RegisterRequest struct {
	Email       string              `json:"email" binding:"required,email,max=255"`
	Password    string              `json:"password" binding:"required,min=6,max=72"`
	Name        string              `json:"name" binding:"required,max=50"`
	Preferences *models.Preferences `json:"preferences"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=50"`
	Avatar *string `json:"avatar" binding:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

// Products

// ProductRequest is used for both create and full replace
type ProductRequest struct {
	Name         string              `json:"name" binding:"required,max=100"`
	Quantity     *float64            `json:"quantity" binding:"omitempty,gte=0"`
	Unit         models.Unit         `json:"unit"`
	Category     models.Category     `json:"category"`
	Location     models.Location     `json:"location"`
	ExpiryDate   *Date               `json:"expiry_date"`
	PurchaseDate *Date               `json:"purchase_date"`
	Price        decimal.NullDecimal `json:"price"`
	Store        string              `json:"store" binding:"max=50"`
	Barcode      string              `json:"barcode" binding:"max=64"`
	ImageURL     string              `json:"image_url" binding:"max=500"`
	Notes        string              `json:"notes" binding:"max=500"`
}

type BulkProductRequest struct {
	Products []ProductRequest `json:"products" binding:"required,min=1,max=100,dive"`
}

// ProductFilter narrows a product listing. Nil fields do not filter.
type ProductFilter struct {
	Category     *models.Category
	Location     *models.Location
	ExpiringSoon bool
	Expired      bool
}

// Recipes

type IngredientInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Quantity string `json:"quantity" binding:"required,max=50"`
	Optional bool   `json:"optional"`
}

type NutritionInput struct {
	Calories float64 `json:"calories" binding:"gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
	Fiber    float64 `json:"fiber" binding:"gte=0"`
	Sugar    float64 `json:"sugar" binding:"gte=0"`
}

type CreateRecipeRequest struct {
	Title         string                `json:"title" binding:"required,max=100"`
	Description   string                `json:"description" binding:"required,max=500"`
	ImageURL      string                `json:"image_url" binding:"max=500"`
	VideoURL      string                `json:"video_url" binding:"max=500"`
	Ingredients   []IngredientInput     `json:"ingredients" binding:"required,min=1,dive"`
	Instructions  []string              `json:"instructions" binding:"required,min=1,dive,required"`
	PrepTime      int                   `json:"prep_time" binding:"required,min=1"`
	CookTime      *int                  `json:"cook_time" binding:"omitempty,min=0"`
	Servings      int                   `json:"servings" binding:"required,min=1"`
	Difficulty    models.Difficulty     `json:"difficulty"`
	Category      models.RecipeCategory `json:"category" binding:"required"`
	Cuisine       models.Cuisine        `json:"cuisine"`
	Tags          []string              `json:"tags" binding:"max=20,dive,max=30"`
	Nutrition     *NutritionInput       `json:"nutrition"`
	IsAIGenerated bool                  `json:"is_ai_generated"`
	AIPrompt      string                `json:"ai_prompt" binding:"max=2000"`
	IsPublic      *bool                 `json:"is_public"`
}

// UpdateRecipeRequest is a partial update; nil fields are left unchanged
type UpdateRecipeRequest struct {
	Title        *string                `json:"title" binding:"omitempty,min=1,max=100"`
	Description  *string                `json:"description" binding:"omitempty,min=1,max=500"`
	ImageURL     *string                `json:"image_url" binding:"omitempty,max=500"`
	VideoURL     *string                `json:"video_url" binding:"omitempty,max=500"`
	Ingredients  []IngredientInput      `json:"ingredients" binding:"omitempty,min=1,dive"`
	Instructions []string               `json:"instructions" binding:"omitempty,min=1,dive,required"`
	PrepTime     *int                   `json:"prep_time" binding:"omitempty,min=1"`
	CookTime     *int                   `json:"cook_time" binding:"omitempty,min=0"`
	Servings     *int                   `json:"servings" binding:"omitempty,min=1"`
	Difficulty   *models.Difficulty     `json:"difficulty"`
	Category     *models.RecipeCategory `json:"category"`
	Cuisine      *models.Cuisine        `json:"cuisine"`
	Tags         []string               `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	Nutrition    *NutritionInput        `json:"nutrition"`
	IsPublic     *bool                  `json:"is_public"`
}

type RateRecipeRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" binding:"max=500"`
}

// RecipeFilter narrows a recipe listing
type RecipeFilter struct {
	Search     string
	Category   *models.RecipeCategory
	Cuisine    *models.Cuisine
	Difficulty *models.Difficulty
	MaxTime    int
	IsPublic   *bool
	Mine       bool
	SortBy     string
	SortDesc   bool
}

// Users

type UpdatePreferencesRequest struct {
	DietaryRestrictions *[]models.DietaryRestriction `json:"dietary_restrictions"`
	FavoriteCuisines    *[]models.Cuisine            `json:"favorite_cuisines"`
	CookingSkill        *models.CookingSkill         `json:"cooking_skill"`
}

// UserSearch filters public user search; Query matches names, Cuisine favourite cuisines
type UserSearch struct {
	Query   string
	Cuisine *models.Cuisine
}

// Media

type UploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=avatar product recipe"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// Assistant and OCR placeholders

type GenerateRecipeRequest struct {
	Ingredients         []string                    `json:"ingredients" binding:"required,min=1,dive,required"`
	Servings            int                         `json:"servings" binding:"omitempty,min=1,max=20"`
	CookTime            int                         `json:"cook_time" binding:"omitempty,min=5,max=300"`
	Difficulty          models.Difficulty           `json:"difficulty"`
	Cuisine             models.Cuisine              `json:"cuisine"`
	DietaryRestrictions []models.DietaryRestriction `json:"dietary_restrictions"`
}

type AnalyzeNutritionRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Servings    int      `json:"servings" binding:"omitempty,min=1"`
}

type SuggestSubstitutesRequest struct {
	Ingredient string `json:"ingredient" binding:"required,max=100"`
	Reason     string `json:"reason" binding:"omitempty,oneof=allergy unavailable preference"`
}

type OptimizeRecipeRequest struct {
	RecipeID             *uuid.UUID `json:"recipe_id"`
	AvailableIngredients []string   `json:"available_ingredients"`
}

type ProcessTicketRequest struct {
	Image     string `json:"image" binding:"required"`
	ImageType string `json:"image_type" binding:"omitempty,oneof=base64 url"`
}

type ValidateImageRequest struct {
	Image string `json:"image" binding:"required"`
}
