package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/pantry"
	"github.com/pageza/despensa/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*types.AuthResponse, error)
	GenerateToken(userID uuid.UUID) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	Authenticate(ctx context.Context, token string) (*models.User, *types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, claims *types.TokenClaims, req *types.ChangePasswordRequest) (string, error)
}

// IProductService defines the interface for pantry product operations
type IProductService interface {
	List(ctx context.Context, owner uuid.UUID, filter types.ProductFilter, page types.PageRequest) (types.Page[types.ProductResponse], error)
	Stats(ctx context.Context, owner uuid.UUID) (*pantry.Stats, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*types.ProductResponse, error)
	Create(ctx context.Context, owner uuid.UUID, req *types.ProductRequest) (*types.ProductResponse, error)
	CreateBulk(ctx context.Context, owner uuid.UUID, reqs []types.ProductRequest) ([]types.ProductResponse, error)
	Replace(ctx context.Context, owner, id uuid.UUID, req *types.ProductRequest) (*types.ProductResponse, error)
	Consume(ctx context.Context, owner, id uuid.UUID) (*types.ProductResponse, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, viewer uuid.UUID, filter types.RecipeFilter, page types.PageRequest) (types.Page[types.RecipeResponse], error)
	ListSaved(ctx context.Context, viewer uuid.UUID, page types.PageRequest) (types.Page[types.RecipeResponse], error)
	Get(ctx context.Context, viewer, id uuid.UUID) (*types.RecipeResponse, error)
	Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error)
	Update(ctx context.Context, viewer, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error)
	Delete(ctx context.Context, viewer, id uuid.UUID) error
	ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error)
	ToggleSave(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error)
	Rate(ctx context.Context, recipeID, userID uuid.UUID, rating int, comment string) (*types.RatingResult, error)
}

// IUserService defines the interface for public profiles and the follow graph
type IUserService interface {
	GetPublic(ctx context.Context, viewer, id uuid.UUID) (*types.UserProfileResponse, error)
	Search(ctx context.Context, search types.UserSearch, page types.PageRequest) (types.Page[types.PublicUser], error)
	Followers(ctx context.Context, id uuid.UUID, page types.PageRequest) (types.Page[types.PublicUser], error)
	Following(ctx context.Context, id uuid.UUID, page types.PageRequest) (types.Page[types.PublicUser], error)
	Stats(ctx context.Context, id uuid.UUID) (*types.UserStats, error)
	ToggleFollow(ctx context.Context, current, target uuid.UUID) (*types.FollowResult, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, req *types.UpdatePreferencesRequest) (*models.User, error)
}

// IMediaService defines the interface for media uploads
type IMediaService interface {
	CreateUploadURL(ctx context.Context, userID uuid.UUID, req *types.UploadURLRequest) (*types.UploadURLResponse, error)
}

// IAssistantService defines the interface for the recipe assistant
type IAssistantService interface {
	GenerateRecipe(ctx context.Context, userID uuid.UUID, req *types.GenerateRecipeRequest) (*types.GeneratedRecipe, error)
	Recommendations(ctx context.Context, userID uuid.UUID) (*types.RecommendationsResponse, error)
	AnalyzeNutrition(ctx context.Context, req *types.AnalyzeNutritionRequest) (*types.NutritionAnalysis, error)
	SuggestSubstitutes(ctx context.Context, req *types.SuggestSubstitutesRequest) (*types.SubstitutesResponse, error)
	OptimizeRecipe(ctx context.Context, userID uuid.UUID, req *types.OptimizeRecipeRequest) (*types.OptimizationResponse, error)
}

// IOCRService defines the interface for receipt scanning
type IOCRService interface {
	ProcessTicket(ctx context.Context, req *types.ProcessTicketRequest) (*types.TicketResult, error)
	History(ctx context.Context) (*types.TicketHistory, error)
	ValidateImage(ctx context.Context, image string) *types.ImageValidation
}
