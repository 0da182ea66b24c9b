package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/testhelpers"
	"github.com/pageza/despensa/backend/internal/types"
)

func setupRecipeTest(t *testing.T) (*gorm.DB, *service.RecipeService) {
	db := testhelpers.SetupSQLite(t)
	return db, service.NewRecipeService(db, logger.Discard())
}

func validRecipeRequest(title string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Title:        title,
		Description:  "Receta de prueba",
		Ingredients:  []types.IngredientInput{{Name: "Tomate", Quantity: "2"}},
		Instructions: []string{"Cortar", " ", "Servir"},
		PrepTime:     10,
		Servings:     2,
		Category:     models.RecipeLunch,
		Tags:         []string{" Rapida", "rapida", "Verano"},
	}
}

func recipeTitles(page types.Page[types.RecipeResponse]) []string {
	out := make([]string, 0, len(page.Items))
	for _, r := range page.Items {
		out = append(out, r.Title)
	}
	return out
}

func TestRecipeService_Create(t *testing.T) {
	db, svc := setupRecipeTest(t)
	owner := testhelpers.CreateUser(t, db, "Chef")

	resp, err := svc.Create(context.Background(), owner.ID, validRecipeRequest("Gazpacho"))
	require.NoError(t, err)
	assert.Equal(t, models.DifficultyMedium, resp.Difficulty)
	assert.Equal(t, models.CuisineOther, resp.Cuisine)
	assert.True(t, resp.IsPublic)
	assert.Equal(t, models.JSONBStringArray{"Cortar", "Servir"}, resp.Instructions)
	assert.Equal(t, models.JSONBStringArray{"rapida", "verano"}, resp.Tags)
	assert.Equal(t, 10, resp.TotalTime)
	require.NotNil(t, resp.Author)
	assert.Equal(t, "Chef", resp.Author.Name)

	bad := validRecipeRequest("")
	bad.Difficulty = models.Difficulty("extreme")
	_, err = svc.Create(context.Background(), owner.ID, bad)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "difficulty")
}

func TestRecipeService_Visibility(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "Alice")
	bob := testhelpers.CreateUser(t, db, "Bob")

	private := testhelpers.CreateRecipe(t, db, alice.ID, "Secreta", false)
	public := testhelpers.CreateRecipe(t, db, alice.ID, "Abierta", true)

	_, err := svc.Get(ctx, bob.ID, private.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Get(ctx, alice.ID, private.ID)
	assert.NoError(t, err)

	_, err = svc.ToggleLike(ctx, private.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Rate(ctx, private.ID, bob.ID, 5, "")
	assert.ErrorIs(t, err, service.ErrNotFound)

	page := types.NewPageRequest(1, 20, 20, 100)
	bobs, err := svc.List(ctx, bob.ID, types.RecipeFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Abierta"}, recipeTitles(bobs))

	alices, err := svc.List(ctx, alice.ID, types.RecipeFilter{SortBy: "title"}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Abierta", "Secreta"}, recipeTitles(alices))

	title := "Cambiada"
	_, err = svc.Update(ctx, bob.ID, public.ID, &types.UpdateRecipeRequest{Title: &title})
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, public.ID), service.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob.ID, uuid.New()), service.ErrNotFound)
}

func TestRecipeService_ToggleLikeTwiceRestoresState(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "Author")
	fan := testhelpers.CreateUser(t, db, "Fan")
	other := testhelpers.CreateUser(t, db, "Other")
	r := testhelpers.CreateRecipe(t, db, author.ID, "Tortilla", true)

	_, err := svc.ToggleLike(ctx, r.ID, other.ID)
	require.NoError(t, err)

	first, err := svc.ToggleLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, int64(2), first.Count)

	got, err := svc.Get(ctx, fan.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, got.LikedByMe)
	assert.Equal(t, int64(2), got.LikesCount)

	second, err := svc.ToggleLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, second.Active)
	assert.Equal(t, int64(1), second.Count)

	saved, err := svc.ToggleSave(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, saved.Active)
	assert.Equal(t, int64(1), saved.Count)
}

func TestRecipeService_RateReplacesEarlierRating(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "Author")
	critic := testhelpers.CreateUser(t, db, "Critic")
	r := testhelpers.CreateRecipe(t, db, author.ID, "Paella", true)

	res, err := svc.Rate(ctx, r.ID, critic.ID, 4, "rica")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RatingsCount)
	assert.Equal(t, 4.0, res.AverageRating)

	res, err = svc.Rate(ctx, r.ID, critic.ID, 2, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RatingsCount)
	assert.Equal(t, 2.0, res.AverageRating)

	res, err = svc.Rate(ctx, r.ID, author.ID, 5, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RatingsCount)
	assert.Equal(t, 3.5, res.AverageRating)

	got, err := svc.Get(ctx, critic.ID, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got.MyRating)
	assert.Equal(t, 2, *got.MyRating)
	assert.Equal(t, 3.5, got.AverageRating)

	for _, bad := range []int{0, 6} {
		_, err := svc.Rate(ctx, uuid.New(), critic.ID, bad, "")
		var verr *service.ValidationError
		assert.ErrorAs(t, err, &verr, "rating %d", bad)
	}
}

func TestRecipeService_SearchMatchesLiterally(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, db, "Owner")

	tarta := validRecipeRequest("Tarta 100% cacao")
	tarta.Tags = []string{"sin_gluten"}
	_, err := svc.Create(ctx, owner.ID, tarta)
	require.NoError(t, err)

	cocido := validRecipeRequest("Cocido")
	cocido.Tags = []string{"invierno", "cuchara"}
	_, err = svc.Create(ctx, owner.ID, cocido)
	require.NoError(t, err)

	page := types.NewPageRequest(1, 20, 20, 100)
	tests := []struct {
		search string
		want   []string
	}{
		{"%", []string{"Tarta 100% cacao"}},
		{"100%", []string{"Tarta 100% cacao"}},
		{"_", []string{"Tarta 100% cacao"}},
		{"inviern", []string{"Cocido"}},
		{`"`, []string{}},
		{",", []string{}},
		{`\`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			res, err := svc.List(ctx, owner.ID, types.RecipeFilter{Search: tt.search}, page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, recipeTitles(res))
			assert.Equal(t, int64(len(tt.want)), res.Pagination.Total)
		})
	}
}

func TestRecipeService_ListFiltersAndSorts(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	owner := testhelpers.CreateUser(t, db, "Owner")
	viewer := testhelpers.CreateUser(t, db, "Viewer")

	quick := validRecipeRequest("Ensalada de verano")
	quick.Difficulty = models.DifficultyEasy
	_, err := svc.Create(ctx, owner.ID, quick)
	require.NoError(t, err)

	slow := validRecipeRequest("Cocido")
	slow.Difficulty = models.DifficultyHard
	slow.PrepTime = 60
	slow.Tags = []string{"invierno"}
	slow.Cuisine = models.CuisineSpanish
	cookTime := 120
	slow.CookTime = &cookTime
	slowResp, err := svc.Create(ctx, owner.ID, slow)
	require.NoError(t, err)

	_, err = svc.Rate(ctx, slowResp.ID, viewer.ID, 5, "")
	require.NoError(t, err)

	page := types.NewPageRequest(1, 20, 20, 100)

	bySearch, err := svc.List(ctx, viewer.ID, types.RecipeFilter{Search: "INVIERNO"}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cocido"}, recipeTitles(bySearch))

	byTime, err := svc.List(ctx, viewer.ID, types.RecipeFilter{MaxTime: 30}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ensalada de verano"}, recipeTitles(byTime))

	spanish := models.CuisineSpanish
	byCuisine, err := svc.List(ctx, viewer.ID, types.RecipeFilter{Cuisine: &spanish}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cocido"}, recipeTitles(byCuisine))

	byDifficulty, err := svc.List(ctx, viewer.ID, types.RecipeFilter{SortBy: "difficulty", SortDesc: true}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cocido", "Ensalada de verano"}, recipeTitles(byDifficulty))

	byRating, err := svc.List(ctx, viewer.ID, types.RecipeFilter{SortBy: "average_rating", SortDesc: true}, page)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cocido", "Ensalada de verano"}, recipeTitles(byRating))
	assert.Equal(t, 5.0, byRating.Items[0].AverageRating)
	assert.Equal(t, int64(2), byRating.Pagination.Total)

	mine, err := svc.List(ctx, viewer.ID, types.RecipeFilter{Mine: true}, page)
	require.NoError(t, err)
	assert.Empty(t, mine.Items)
}

func TestRecipeService_SavedAndDeleteCascade(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "Author")
	fan := testhelpers.CreateUser(t, db, "Fan")
	r := testhelpers.CreateRecipe(t, db, author.ID, "Flan", true)
	testhelpers.CreateRecipe(t, db, author.ID, "Natillas", true)

	_, err := svc.ToggleSave(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, r.ID, fan.ID, 5, "")
	require.NoError(t, err)

	saved, err := svc.ListSaved(ctx, fan.ID, types.NewPageRequest(1, 20, 20, 100))
	require.NoError(t, err)
	assert.Equal(t, []string{"Flan"}, recipeTitles(saved))
	assert.True(t, saved.Items[0].SavedByMe)

	require.NoError(t, svc.Delete(ctx, author.ID, r.ID))

	for _, m := range []interface{}{&models.RecipeLike{}, &models.RecipeSave{}, &models.RecipeRating{}} {
		var n int64
		require.NoError(t, db.Model(m).Where("recipe_id = ?", r.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	_, err = svc.Get(ctx, author.ID, r.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRecipeService_UpdatePartial(t *testing.T) {
	db, svc := setupRecipeTest(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "Author")
	r := testhelpers.CreateRecipe(t, db, author.ID, "Sopa", true)

	private := false
	servings := 6
	updated, err := svc.Update(ctx, author.ID, r.ID, &types.UpdateRecipeRequest{
		IsPublic: &private,
		Servings: &servings,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sopa", updated.Title)
	assert.False(t, updated.IsPublic)
	assert.Equal(t, 6, updated.Servings)

	zero := 0
	_, err = svc.Update(ctx, author.ID, r.ID, &types.UpdateRecipeRequest{PrepTime: &zero})
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}
