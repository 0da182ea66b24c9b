package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/api"
	"github.com/pageza/despensa/backend/internal/graph"
	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/middleware"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/testhelpers"
)

// fakePresigner signs nothing; it only echoes the key
type fakePresigner struct{}

func (fakePresigner) GeneratePresignedUploadURL(ctx context.Context, key, contentType string, exp time.Duration) (string, error) {
	return "https://uploads.test/" + key + "?signed=1", nil
}

func (fakePresigner) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type testServer struct {
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
}

func setupTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	log := logger.Discard()

	authService := service.NewAuthService(db, "api-test-secret", time.Hour, nil, log)
	authService.SetPasswordCost(bcrypt.MinCost)

	common := api.Common{
		Log:          log,
		RequireAuth:  middleware.AuthMiddleware(authService, log),
		OptionalAuth: middleware.OptionalAuthMiddleware(authService, log),
	}

	r := gin.New()
	api.NewHealthHandler(db, nil, log).RegisterRoutes(r)

	group := r.Group("/api")
	api.NewAuthHandler(authService, common).RegisterRoutes(group)
	api.NewProductHandler(service.NewProductService(db, 3, time.UTC, log), common).RegisterRoutes(group)
	api.NewRecipeHandler(service.NewRecipeService(db, log), common, nil, nil).RegisterRoutes(group)
	api.NewUserHandler(service.NewUserService(db, graph.NewGormStore(db), log), common, nil, nil).RegisterRoutes(group)
	api.NewAssistantHandler(
		service.NewAssistantService(db, rand.New(rand.NewSource(7)), log),
		service.NewOCRService(log),
		common,
	).RegisterRoutes(group)
	api.NewMediaHandler(service.NewMediaService(fakePresigner{}, log), common).RegisterRoutes(group)

	return &testServer{db: db, auth: authService, router: r}
}

// login creates a fixture user and returns it with a bearer token
func (s *testServer) login(t *testing.T, name string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, s.db, name)
	token, err := s.auth.GenerateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func fields(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	f, ok := body["fields"].(map[string]interface{})
	require.True(t, ok, "expected field errors in %v", body)
	return f
}

func TestAuthEndpoints(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"email":    "Ana@Example.com",
		"password": "secreto123",
		"name":     "Ana",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode(t, w)
	assert.NotEmpty(t, registered["token"])

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"email": "ana@example.com", "password": "secreto123", "name": "Otra",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("binding errors use json names", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
			"email": "no-es-email", "password": "123",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		f := fields(t, decode(t, w))
		assert.Contains(t, f, "email")
		assert.Contains(t, f, "password")
		assert.Contains(t, f, "name")
	})

	t.Run("login", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "secreto123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode(t, w)["token"])

		w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "incorrecta",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid credentials", decode(t, w)["error"])
	})

	t.Run("profile requires a token", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(t, http.MethodGet, "/api/auth/profile", registered["token"].(string), nil)
		require.Equal(t, http.StatusOK, w.Code)
		profile := decode(t, w)
		assert.Equal(t, "ana@example.com", profile["email"])
		assert.NotContains(t, profile, "password_hash")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	s := setupTestServer(t)
	_, token := s.login(t, "Ana")
	_, otherToken := s.login(t, "Luis")

	w := s.do(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"quantity": -1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fields(t, decode(t, w)), "name")

	w = s.do(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Leche", "category": "vitaminas",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fields(t, decode(t, w)), "category")

	w = s.do(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Leche", "category": "lacteos", "unit": "l", "quantity": 1, "price": "1.25",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/products/bulk", token, map[string]interface{}{
		"products": []map[string]interface{}{
			{"name": "Manzanas", "category": "frutas"},
			{"name": "Peras", "category": "frutas"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = s.do(t, http.MethodGet, "/api/products?category=frutas", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Len(t, page["items"], 2)
	assert.EqualValues(t, 2, page["pagination"].(map[string]interface{})["total"])

	w = s.do(t, http.MethodGet, "/api/products?location=sotano", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/products/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 3, stats["total_products"])
	assert.Equal(t, map[string]interface{}{"frutas": 2.0, "lacteos": 1.0}, stats["by_category"])

	t.Run("owner scoping", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/"+id, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodDelete, "/api/products/"+id, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/not-a-uuid", token, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fields(t, decode(t, w)), "id")
	})

	t.Run("consume hides the product", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/products/"+id+"/consume", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodGet, "/api/products", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["items"], 2)
	})
}

func TestProductRequestValues(t *testing.T) {
	s := setupTestServer(t)
	_, token := s.login(t, "Ana")

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	w := s.do(t, http.MethodPost, "/api/products", token, map[string]interface{}{
		"name": "Leche", "expiry_date": tomorrow,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 1, body["days_until_expiry"])
	assert.Equal(t, true, body["is_expiring_soon"])

	for name, product := range map[string]map[string]interface{}{
		"price":  {"name": "Leche", "price": "abc"},
		"expiry": {"name": "Leche", "expiry_date": "mañana"},
	} {
		t.Run(name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/products", token, product)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "invalid request body", decode(t, w)["error"])
		})
	}

	w = s.do(t, http.MethodPost, "/api/ai/optimize-recipe", token, map[string]string{"recipe_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func recipeBody(title string, public bool) map[string]interface{} {
	return map[string]interface{}{
		"title":        title,
		"description":  "Una receta",
		"ingredients":  []map[string]string{{"name": "Tomate", "quantity": "2"}},
		"instructions": []string{"Cortar", "Servir"},
		"prep_time":    10,
		"servings":     2,
		"category":     "almuerzo",
		"is_public":    public,
	}
}

func TestRecipeEndpoints(t *testing.T) {
	s := setupTestServer(t)
	_, chefToken := s.login(t, "Chef")
	_, fanToken := s.login(t, "Fan")

	w := s.do(t, http.MethodPost, "/api/recipes", chefToken, recipeBody("Gazpacho", true))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	publicID := decode(t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/recipes", chefToken, recipeBody("Secreto", false))
	require.Equal(t, http.StatusCreated, w.Code)
	privateID := decode(t, w)["id"].(string)

	t.Run("private recipes are hidden from others", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/recipes/"+privateID, fanToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodGet, "/api/recipes", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["items"], 1)
	})

	t.Run("non owner cannot update", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/recipes/"+publicID, fanToken, map[string]string{"title": "Mio"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("like toggles", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/like", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]interface{}{"liked": true, "likes_count": 1.0}, decode(t, w))

		w = s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/like", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]interface{}{"liked": false, "likes_count": 0.0}, decode(t, w))
	})

	t.Run("save then list saved", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/save", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["saved"])

		w = s.do(t, http.MethodGet, "/api/recipes/saved", fanToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["items"], 1)
	})

	t.Run("rating", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/rate", fanToken, map[string]int{"rating": 6})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/rate", fanToken, map[string]int{"rating": 4})
		require.Equal(t, http.StatusOK, w.Code)
		w = s.do(t, http.MethodPost, "/api/recipes/"+publicID+"/rate", fanToken, map[string]int{"rating": 2})
		require.Equal(t, http.StatusOK, w.Code)
		result := decode(t, w)
		assert.EqualValues(t, 2, result["average_rating"])
		assert.EqualValues(t, 1, result["ratings_count"])
	})

	t.Run("query validation", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/recipes?sort_by=calories", chefToken, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, fields(t, decode(t, w)), "sort_by")

		w = s.do(t, http.MethodGet, "/api/recipes?sort_order=sideways", chefToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodGet, "/api/recipes?sort_by=title&sort_order=asc&mine=true", chefToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		items := decode(t, w)["items"].([]interface{})
		require.Len(t, items, 2)
		assert.Equal(t, "Gazpacho", items[0].(map[string]interface{})["title"])
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/recipes/"+publicID, fanToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = s.do(t, http.MethodDelete, "/api/recipes/"+publicID, chefToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodGet, "/api/recipes/"+publicID, chefToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserEndpoints(t *testing.T) {
	s := setupTestServer(t)
	ana, anaToken := s.login(t, "Ana")
	luis, _ := s.login(t, "Luis")

	w := s.do(t, http.MethodPost, "/api/users/"+ana.ID.String()+"/follow", anaToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fields(t, decode(t, w)), "user_id")

	w = s.do(t, http.MethodPost, "/api/users/"+luis.ID.String()+"/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/users/"+luis.ID.String()+"/follow", anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"following": true, "followers_count": 1.0, "following_count": 1.0,
	}, decode(t, w))

	// reads are public
	w = s.do(t, http.MethodGet, "/api/users/"+luis.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.EqualValues(t, 1, profile["followers_count"])
	assert.Equal(t, false, profile["is_following"])

	w = s.do(t, http.MethodGet, "/api/users/"+luis.ID.String(), anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_following"])

	w = s.do(t, http.MethodGet, "/api/users/"+luis.ID.String(), "not-a-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_following"])

	w = s.do(t, http.MethodGet, "/api/users/"+luis.ID.String()+"/followers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, ana.ID.String(), items[0].(map[string]interface{})["id"])
	assert.NotContains(t, items[0], "email")

	w = s.do(t, http.MethodGet, "/api/users/"+ana.ID.String()+"/stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["following_count"])

	w = s.do(t, http.MethodGet, "/api/users?q=lu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	w = s.do(t, http.MethodPut, "/api/users/preferences", anaToken, map[string]interface{}{
		"favorite_cuisines": []string{"italian"},
		"cooking_skill":     "advanced",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prefs := decode(t, w)["preferences"].(map[string]interface{})
	assert.Equal(t, "advanced", prefs["cooking_skill"])

	w = s.do(t, http.MethodGet, "/api/users?cuisine=italian", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	testhelpers.DeactivateUser(t, s.db, luis)
	w = s.do(t, http.MethodGet, "/api/users/"+luis.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssistantEndpoints(t *testing.T) {
	s := setupTestServer(t)
	_, token := s.login(t, "Ana")

	w := s.do(t, http.MethodPost, "/api/ai/generate-recipe", token, map[string]interface{}{
		"ingredients": []string{"tomate", "pan"},
		"servings":    2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	recipe := decode(t, w)["recipe"].(map[string]interface{})
	assert.EqualValues(t, 2, recipe["servings"])

	w = s.do(t, http.MethodPost, "/api/ai/generate-recipe", token, map[string]interface{}{"ingredients": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/ai/suggest-substitutes", token, map[string]string{"ingredient": "huevo", "reason": "capricho"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/ai/recommendations", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/ocr/validate-image", token, map[string]string{"image": "data:image/png;base64,AAAA"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_valid"])

	w = s.do(t, http.MethodPost, "/api/ocr/process-ticket", token, map[string]string{"image": "data:image/png;base64,AAAA"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 4)

	w = s.do(t, http.MethodGet, "/api/ocr/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	w = s.do(t, http.MethodGet, "/api/ocr/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMediaEndpoint(t *testing.T) {
	s := setupTestServer(t)
	user, token := s.login(t, "Ana")

	w := s.do(t, http.MethodPost, "/api/media/upload-url", token, map[string]string{
		"kind": "avatar", "content_type": "image/png",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Contains(t, body["object_key"], "avatars/"+user.ID.String()+"/")
	assert.Contains(t, body["public_url"], "https://cdn.test/avatars/")

	w = s.do(t, http.MethodPost, "/api/media/upload-url", token, map[string]string{
		"kind": "avatar", "content_type": "image/gif",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fields(t, decode(t, w)), "content_type")
}

func TestHealth(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")
	assert.Contains(t, body, "timestamp")

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}
