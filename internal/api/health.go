package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/database"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports liveness together with the state of the backing stores
type HealthHandler struct {
	db      *gorm.DB
	redis   *redis.Client
	log     logrus.FieldLogger
	started time.Time
	now     func() time.Time
}

// NewHealthHandler builds the handler; redisClient may be nil when Redis is not configured
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redisClient,
		log:     log,
		started: time.Now(),
		now:     time.Now,
	}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.log.WithError(err).Warn("Database health check failed")
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		checks["redis"] = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.log.WithError(err).Warn("Redis health check failed")
			checks["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unhealthy"
	}

	now := h.now()
	c.JSON(status, gin.H{
		"status":    state,
		"timestamp": now.UTC().Format(time.RFC3339),
		"uptime":    now.Sub(h.started).Seconds(),
		"checks":    checks,
	})
}
