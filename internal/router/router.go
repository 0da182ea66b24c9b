package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/api"
	"github.com/pageza/despensa/backend/internal/middleware"
	"github.com/pageza/despensa/backend/internal/service"
)

// Dependencies is everything the HTTP surface is built from. Redis and
// Metrics are optional.
type Dependencies struct {
	DB    *gorm.DB
	Redis *redis.Client
	Log   logrus.FieldLogger

	Auth      service.IAuthService
	Products  service.IProductService
	Recipes   service.IRecipeService
	Users     service.IUserService
	Media     service.IMediaService
	Assistant service.IAssistantService
	OCR       service.IOCRService

	Metrics *middleware.Metrics

	CORSOrigins        string
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	ExposeErrorDetails bool
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler(deps.Log))
	router.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", deps.Metrics.Handler())
	}
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.NoRoute(middleware.NotFound)

	api.NewHealthHandler(deps.DB, deps.Redis, deps.Log).RegisterRoutes(router)

	global := middleware.NewGlobalRateLimiter(deps.Redis, deps.RateLimitRequests, deps.RateLimitWindow, deps.Log, deps.Metrics)
	social := middleware.NewSocialRateLimiter(deps.Redis, deps.Log, deps.Metrics).Middleware(middleware.UserKey)

	v1 := router.Group("/api")
	v1.Use(global.Middleware(middleware.ClientIPKey))

	common := api.Common{
		Log:           deps.Log,
		RequireAuth:   middleware.AuthMiddleware(deps.Auth, deps.Log),
		OptionalAuth:  middleware.OptionalAuthMiddleware(deps.Auth, deps.Log),
		ExposeDetails: deps.ExposeErrorDetails,
	}

	api.NewAuthHandler(deps.Auth, common).RegisterRoutes(v1)
	api.NewProductHandler(deps.Products, common).RegisterRoutes(v1)
	api.NewRecipeHandler(deps.Recipes, common, social, deps.Metrics).RegisterRoutes(v1)
	api.NewUserHandler(deps.Users, common, social, deps.Metrics).RegisterRoutes(v1)
	api.NewAssistantHandler(deps.Assistant, deps.OCR, common).RegisterRoutes(v1)
	api.NewMediaHandler(deps.Media, common).RegisterRoutes(v1)

	return router
}
