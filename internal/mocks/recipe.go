package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

// List mocks the List method
func (m *MockRecipeService) List(ctx context.Context, viewer uuid.UUID, filter types.RecipeFilter, page types.PageRequest) (types.Page[types.RecipeResponse], error) {
	args := m.Called(ctx, viewer, filter, page)
	return args.Get(0).(types.Page[types.RecipeResponse]), args.Error(1)
}

// ListSaved mocks the ListSaved method
func (m *MockRecipeService) ListSaved(ctx context.Context, viewer uuid.UUID, page types.PageRequest) (types.Page[types.RecipeResponse], error) {
	args := m.Called(ctx, viewer, page)
	return args.Get(0).(types.Page[types.RecipeResponse]), args.Error(1)
}

// Get mocks the Get method
func (m *MockRecipeService) Get(ctx context.Context, viewer, id uuid.UUID) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

// Create mocks the Create method
func (m *MockRecipeService) Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeService) Update(ctx context.Context, viewer, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	args := m.Called(ctx, viewer, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeResponse), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecipeService) Delete(ctx context.Context, viewer, id uuid.UUID) error {
	args := m.Called(ctx, viewer, id)
	return args.Error(0)
}

// ToggleLike mocks the ToggleLike method
func (m *MockRecipeService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error) {
	args := m.Called(ctx, recipeID, userID)
	return args.Get(0).(types.ToggleResult), args.Error(1)
}

// ToggleSave mocks the ToggleSave method
func (m *MockRecipeService) ToggleSave(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error) {
	args := m.Called(ctx, recipeID, userID)
	return args.Get(0).(types.ToggleResult), args.Error(1)
}

// Rate mocks the Rate method
func (m *MockRecipeService) Rate(ctx context.Context, recipeID, userID uuid.UUID, rating int, comment string) (*types.RatingResult, error) {
	args := m.Called(ctx, recipeID, userID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RatingResult), args.Error(1)
}
