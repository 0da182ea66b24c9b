package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/models"
)

// TestPassword is the plaintext password of every fixture user
const TestPassword = "testpassword123"

// CreateUser inserts an active user with TestPassword
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
	}
	user.Preferences.Normalize()
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// DeactivateUser marks a fixture user inactive
func DeactivateUser(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	if err := db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
	user.IsActive = false
}

// CreateProduct inserts a product owned by owner. Expiry is optional.
func CreateProduct(t *testing.T, db *gorm.DB, owner uuid.UUID, name string, category models.Category, expiry *time.Time) *models.Product {
	t.Helper()

	if expiry != nil {
		utc := expiry.UTC()
		expiry = &utc
	}
	p := &models.Product{
		Name:       name,
		Quantity:   1,
		Unit:       models.UnitPieces,
		Category:   category,
		Location:   models.LocationPantry,
		ExpiryDate: expiry,
		CreatedBy:  owner,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

// CreateRecipe inserts a minimal valid recipe owned by owner
func CreateRecipe(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, public bool) *models.Recipe {
	t.Helper()

	r := &models.Recipe{
		Title:        title,
		Description:  "A test recipe",
		Ingredients:  models.Ingredients{{Name: "huevo", Quantity: "2"}},
		Instructions: models.JSONBStringArray{"Mix", "Cook"},
		PrepTime:     10,
		CookTime:     5,
		Servings:     2,
		Difficulty:   models.DifficultyEasy,
		Category:     models.RecipeDinner,
		Cuisine:      models.CuisineOther,
		Tags:         models.JSONBStringArray{"test"},
		IsPublic:     public,
		CreatedBy:    owner,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return r
}
