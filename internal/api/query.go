package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

// pageRequest reads page and limit, clamping limit to the route's maximum
func pageRequest(c *gin.Context, defaultLimit, maxLimit int) types.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return types.NewPageRequest(page, limit, defaultLimit, maxLimit)
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, service.NewValidationError(name, "must be a valid id")
	}
	return id, nil
}

// boolQuery accepts true/false/1/0; absent means false
func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, service.NewValidationError(name, "must be true or false")
	}
	return v, nil
}

// optionalBoolQuery is boolQuery that distinguishes absent from false
func optionalBoolQuery(c *gin.Context, name string) (*bool, error) {
	if _, ok := c.GetQuery(name); !ok {
		return nil, nil
	}
	v, err := boolQuery(c, name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// enumQuery parses an optional closed-set query value
func enumQuery[T ~string](c *gin.Context, name string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, service.NewValidationError(name, err.Error())
	}
	return &v, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, service.NewValidationError(name, "must be a non-negative integer")
	}
	return v, nil
}

// currentUserID reads the id set by the auth middleware
func currentUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get("user_id")
	uid, _ := id.(uuid.UUID)
	return uid
}
