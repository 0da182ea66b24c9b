package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/despensa/backend/internal/middleware"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

const (
	recipesDefaultLimit = 20
	recipesMaxLimit     = 100
)

type RecipeHandler struct {
	recipeService service.IRecipeService
	requireAuth   gin.HandlerFunc
	social        gin.HandlerFunc
	metrics       *middleware.Metrics
	responder
}

// NewRecipeHandler builds the recipe handler. social throttles like, save and
// rate; metrics may be nil.
func NewRecipeHandler(recipeService service.IRecipeService, common Common, social gin.HandlerFunc, metrics *middleware.Metrics) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		requireAuth:   orPassThrough(common.RequireAuth),
		social:        orPassThrough(social),
		metrics:       metrics,
		responder:     common.responder(),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(h.requireAuth)
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/saved", h.ListSaved)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/like", h.social, h.ToggleLike)
		recipes.POST("/:id/save", h.social, h.ToggleSave)
		recipes.POST("/:id/rate", h.social, h.RateRecipe)
	}
}

func (h *RecipeHandler) recipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	filter := types.RecipeFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		SortBy:   strings.TrimSpace(c.DefaultQuery("sort_by", "created_at")),
		SortDesc: true,
	}

	var err error
	if filter.Category, err = enumQuery(c, "category", models.ParseRecipeCategory); err != nil {
		return filter, err
	}
	if filter.Cuisine, err = enumQuery(c, "cuisine", models.ParseCuisine); err != nil {
		return filter, err
	}
	if filter.Difficulty, err = enumQuery(c, "difficulty", models.ParseDifficulty); err != nil {
		return filter, err
	}
	if filter.MaxTime, err = intQuery(c, "max_time"); err != nil {
		return filter, err
	}
	if filter.IsPublic, err = optionalBoolQuery(c, "is_public"); err != nil {
		return filter, err
	}
	if filter.Mine, err = boolQuery(c, "mine"); err != nil {
		return filter, err
	}

	if !service.ValidRecipeSort(filter.SortBy) {
		return filter, service.NewValidationError("sort_by", "must be one of: created_at, title, prep_time, cook_time, total_time, difficulty, average_rating")
	}
	switch strings.ToLower(c.DefaultQuery("sort_order", "desc")) {
	case "asc":
		filter.SortDesc = false
	case "desc":
	default:
		return filter, service.NewValidationError("sort_order", "must be asc or desc")
	}

	return filter, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := h.recipeFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.recipeService.List(c.Request.Context(), currentUserID(c), filter, pageRequest(c, recipesDefaultLimit, recipesMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) ListSaved(c *gin.Context) {
	page, err := h.recipeService.ListSaved(c.Request.Context(), currentUserID(c), pageRequest(c, recipesDefaultLimit, recipesMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req types.UpdateRecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully"})
}

func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.recipeService.ToggleLike(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Toggled("like", result.Active)

	c.JSON(http.StatusOK, gin.H{"liked": result.Active, "likes_count": result.Count})
}

func (h *RecipeHandler) ToggleSave(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.recipeService.ToggleSave(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Toggled("save", result.Active)

	c.JSON(http.StatusOK, gin.H{"saved": result.Active, "saves_count": result.Count})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req types.RateRecipeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.recipeService.Rate(c.Request.Context(), id, currentUserID(c), req.Rating, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
