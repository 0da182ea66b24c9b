package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/pantry"
)

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProductResponse is a product with its derived expiry state
type ProductResponse struct {
	models.Product
	pantry.Evaluation
}

// PublicUser is what other users may see of an account
type PublicUser struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Avatar      string             `json:"avatar"`
	Preferences models.Preferences `json:"preferences"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewPublicUser projects a user onto its public fields
func NewPublicUser(u *models.User) PublicUser {
	return PublicUser{
		ID:          u.ID,
		Name:        u.Name,
		Avatar:      u.Avatar,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt,
	}
}

// UserProfileResponse is a public profile; IsFollowing is relative to the viewer
type UserProfileResponse struct {
	PublicUser
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type UserStats struct {
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	RecipesCount   int64     `json:"recipes_count"`
	JoinDate       time.Time `json:"join_date"`
	IsActive       bool      `json:"is_active"`
}

// RecipeResponse is a recipe with its social projections relative to the caller
type RecipeResponse struct {
	models.Recipe
	Author        *PublicUser `json:"author,omitempty"`
	TotalTime     int         `json:"total_time"`
	AverageRating float64     `json:"average_rating"`
	RatingsCount  int64       `json:"ratings_count"`
	LikesCount    int64       `json:"likes_count"`
	SavesCount    int64       `json:"saves_count"`
	LikedByMe     bool        `json:"liked_by_me"`
	SavedByMe     bool        `json:"saved_by_me"`
	MyRating      *int        `json:"my_rating,omitempty"`
}

// ToggleResult is the outcome of a like or save toggle
type ToggleResult struct {
	Active bool
	Count  int64
}

type RatingResult struct {
	Rating        int     `json:"rating"`
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int64   `json:"ratings_count"`
}

// FollowResult reports the edge state after a toggle, the target's follower
// count and the caller's following count
type FollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}

type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	ObjectKey string    `json:"object_key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
