package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/testhelpers"
	"github.com/pageza/despensa/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	user *models.User
	err  error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, *types.TokenClaims, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	if token != "good" {
		return nil, nil, service.ErrInvalidToken
	}
	return s.user, &types.TokenClaims{UserID: s.user.ID}, nil
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Ana", IsActive: true}

	newRouter := func(auth Authenticator) *gin.Engine {
		r := gin.New()
		r.GET("/me", AuthMiddleware(auth, logger.Discard()), func(c *gin.Context) {
			id, ok := UserID(c)
			require.True(t, ok)
			u, ok := CurrentUser(c)
			require.True(t, ok)
			_, ok = Claims(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"id": id, "name": u.Name})
		})
		return r
	}

	tests := []struct {
		name   string
		auth   Authenticator
		header string
		status int
		body   string
	}{
		{"valid token", stubAuthenticator{user: user}, "Bearer good", http.StatusOK, user.ID.String()},
		{"lowercase scheme", stubAuthenticator{user: user}, "bearer good", http.StatusOK, "Ana"},
		{"missing header", stubAuthenticator{user: user}, "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", stubAuthenticator{user: user}, "Basic abc", http.StatusUnauthorized, "invalid authorization header format"},
		{"empty token", stubAuthenticator{user: user}, "Bearer ", http.StatusUnauthorized, "invalid authorization header format"},
		{"invalid token", stubAuthenticator{user: user}, "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"inactive user", stubAuthenticator{err: service.ErrInactiveUser}, "Bearer good", http.StatusUnauthorized, "user is inactive"},
		{"store failure", stubAuthenticator{err: assert.AnError}, "Bearer good", http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(newRouter(tt.auth), http.MethodGet, "/me", headers)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Ana", IsActive: true}

	newRouter := func(auth Authenticator) *gin.Engine {
		r := gin.New()
		r.GET("/profile", OptionalAuthMiddleware(auth, logger.Discard()), func(c *gin.Context) {
			id, _ := UserID(c)
			c.String(http.StatusOK, id.String())
		})
		return r
	}

	tests := []struct {
		name   string
		auth   Authenticator
		header string
		want   uuid.UUID
	}{
		{"valid token", stubAuthenticator{user: user}, "Bearer good", user.ID},
		{"anonymous", stubAuthenticator{user: user}, "", uuid.Nil},
		{"wrong scheme", stubAuthenticator{user: user}, "Basic abc", uuid.Nil},
		{"invalid token", stubAuthenticator{user: user}, "Bearer bad", uuid.Nil},
		{"store failure", stubAuthenticator{err: assert.AnError}, "Bearer good", uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(newRouter(tt.auth), http.MethodGet, "/profile", headers)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want.String(), w.Body.String())
		})
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.Discard()))
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})
	r.NoRoute(NotFound)

	w := perform(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	w = perform(r, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000, https://despensa.example.com/"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := perform(r, http.MethodOptions, "/ping", map[string]string{
		"Origin":                        "https://despensa.example.com",
		"Access-Control-Request-Method": "GET",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://despensa.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://evil.example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	perform(r, http.MethodGet, "/items/1", nil)
	perform(r, http.MethodGet, "/items/2", nil)
	m.Toggled("like", true)
	m.RateLimited("global")

	w := perform(r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `despensa_http_requests_total{method="GET",route="/items/:id",status="200"} 2`)
	assert.Contains(t, body, `despensa_social_toggles_total{active="true",kind="like"} 1`)
	assert.Contains(t, body, `despensa_rate_limited_total{limiter="global"} 1`)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewGlobalRateLimiter(nil, 1, time.Minute, logger.Discard(), nil)
	r := gin.New()
	r.Use(rl.Middleware(ClientIPKey))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rl := NewGlobalRateLimiter(client, 1, time.Minute, logger.Discard(), nil)
	r := gin.New()
	r.Use(rl.Middleware(ClientIPKey))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiter_Redis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	metrics := NewMetrics()
	rl := NewGlobalRateLimiter(client, 2, time.Minute, logger.Discard(), metrics)

	r := gin.New()
	r.Use(rl.Middleware(ClientIPKey))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", nil).Code)

	limited := perform(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.True(t, strings.Contains(limited.Body.String(), "rate limit exceeded"))
}

func TestUserKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, UserKey(c))

	id := uuid.New()
	c.Set(UserIDKey, id)
	assert.Equal(t, id.String(), UserKey(c))
}
