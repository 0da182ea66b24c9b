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
	usersDefaultLimit = 20
	usersMaxLimit     = 50
)

// UserHandler serves public profiles and the follow graph. Reads are public.
type UserHandler struct {
	userService  service.IUserService
	requireAuth  gin.HandlerFunc
	optionalAuth gin.HandlerFunc
	social       gin.HandlerFunc
	metrics      *middleware.Metrics
	responder
}

func NewUserHandler(userService service.IUserService, common Common, social gin.HandlerFunc, metrics *middleware.Metrics) *UserHandler {
	return &UserHandler{
		userService:  userService,
		requireAuth:  orPassThrough(common.RequireAuth),
		optionalAuth: orPassThrough(common.OptionalAuth),
		social:       orPassThrough(social),
		metrics:      metrics,
		responder:    common.responder(),
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.SearchUsers)
		users.GET("/:id", h.optionalAuth, h.GetUser)
		users.GET("/:id/followers", h.GetFollowers)
		users.GET("/:id/following", h.GetFollowing)
		users.GET("/:id/stats", h.GetStats)
		users.POST("/:id/follow", h.requireAuth, h.social, h.ToggleFollow)
		users.PUT("/preferences", h.requireAuth, h.UpdatePreferences)
	}
}

func (h *UserHandler) SearchUsers(c *gin.Context) {
	search := types.UserSearch{Query: strings.TrimSpace(c.Query("q"))}

	var err error
	if search.Cuisine, err = enumQuery(c, "cuisine", models.ParseCuisine); err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.userService.Search(c.Request.Context(), search, pageRequest(c, usersDefaultLimit, usersMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.userService.GetPublic(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetFollowers(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.userService.Followers(c.Request.Context(), id, pageRequest(c, usersDefaultLimit, usersMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetFollowing(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.userService.Following(c.Request.Context(), id, pageRequest(c, usersDefaultLimit, usersMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetStats(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	stats, err := h.userService.Stats(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) ToggleFollow(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := h.userService.ToggleFollow(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.Toggled("follow", result.Following)

	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req types.UpdatePreferencesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdatePreferences(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "preferences updated successfully", "preferences": user.Preferences})
}
