package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/config"
	"github.com/pageza/despensa/backend/internal/database"
	"github.com/pageza/despensa/backend/internal/graph"
	"github.com/pageza/despensa/backend/internal/middleware"
	"github.com/pageza/despensa/backend/internal/router"
	"github.com/pageza/despensa/backend/internal/service"
)

// Server represents the HTTP server and the connections it owns
type Server struct {
	cfg    *config.Config
	log    logrus.FieldLogger
	db     *gorm.DB
	redis  *redis.Client
	neo4j  *database.Neo4jClient
	router *gin.Engine
	http   *http.Server
}

// New connects to every backing store and builds the router. Redis is
// optional: without it rate limiting and token revocation are disabled.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Server, error) {
	gin.SetMode(cfg.Env.GinMode())

	s := &Server{cfg: cfg, log: log}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	s.db = db

	if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
		s.close(ctx)
		return nil, err
	}

	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, continuing without rate limiting and token revocation")
		} else {
			s.redis = client
		}
	}

	followGraph, err := s.followGraph(ctx)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	s3, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		s.close(ctx)
		return nil, err
	}

	var revoker service.TokenRevoker
	if s.redis != nil {
		revoker = service.NewRedisTokenRevoker(s.redis)
	}

	s.router = router.SetupRouter(router.Dependencies{
		DB:    db,
		Redis: s.redis,
		Log:   log,

		Auth:      service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, revoker, log),
		Products:  service.NewProductService(db, cfg.ExpiryThresholdDays, cfg.Location(), log),
		Recipes:   service.NewRecipeService(db, log),
		Users:     service.NewUserService(db, followGraph, log),
		Media:     service.NewMediaService(s3, log),
		Assistant: service.NewAssistantService(db, nil, log),
		OCR:       service.NewOCRService(log),

		Metrics: middleware.NewMetrics(),

		CORSOrigins:        cfg.FrontendURL,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
		ExposeErrorDetails: cfg.Env.ExposeErrorDetails(),
	})

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) followGraph(ctx context.Context) (graph.Store, error) {
	if s.cfg.GraphBackend != "neo4j" {
		return graph.NewGormStore(s.db), nil
	}

	client, err := database.NewNeo4jClient(s.cfg, s.log)
	if err != nil {
		return nil, err
	}
	s.neo4j = client

	store := graph.NewNeo4jStore(client)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare follow graph: %w", err)
	}
	return store, nil
}

// Handler returns the HTTP handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("Starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes
// every connection the server owns
func (s *Server) Shutdown(ctx context.Context) error {
	var result *multierror.Error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("http server: %w", err))
		}
	}
	if err := s.close(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (s *Server) close(ctx context.Context) error {
	var result *multierror.Error

	if s.neo4j != nil {
		if err := s.neo4j.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("neo4j: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("redis: %w", err))
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("database: %w", err))
		}
	}

	return result.ErrorOrNil()
}
