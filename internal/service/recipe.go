package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/pantry"
	"github.com/pageza/despensa/backend/internal/types"
)

// RecipeService manages recipes and their likes, saves and ratings
type RecipeService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, log logrus.FieldLogger) *RecipeService {
	return &RecipeService{db: db, log: log}
}

var recipeSortColumns = map[string]string{
	"created_at":     "recipes.created_at",
	"title":          "LOWER(recipes.title)",
	"prep_time":      "recipes.prep_time",
	"cook_time":      "recipes.cook_time",
	"total_time":     "(recipes.prep_time + recipes.cook_time)",
	"difficulty":     "CASE recipes.difficulty WHEN 'easy' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END",
	"average_rating": "COALESCE(rating_stats.avg_rating, 0)",
}

// ValidRecipeSort reports whether sortBy is an accepted sort key
func ValidRecipeSort(sortBy string) bool {
	_, ok := recipeSortColumns[sortBy]
	return ok
}

// visible restricts q to recipes the viewer may see
func visible(q *gorm.DB, viewer uuid.UUID) *gorm.DB {
	return q.Where("(recipes.is_public = ? OR recipes.created_by = ?)", true, viewer)
}

// tagMatch matches recipes having at least one tag that satisfies a LIKE pattern
func (s *RecipeService) tagMatch() string {
	if s.db.Dialector.Name() == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.tags) AS tag(value) WHERE LOWER(tag.value) LIKE ? ESCAPE '" + likeEscape + "')"
	}
	return "EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE LOWER(json_each.value) LIKE ? ESCAPE '" + likeEscape + "')"
}

func (s *RecipeService) List(ctx context.Context, viewer uuid.UUID, filter types.RecipeFilter, page types.PageRequest) (types.Page[types.RecipeResponse], error) {
	q := visible(s.db.WithContext(ctx).Model(&models.Recipe{}), viewer)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := containsPattern(search)
		q = q.Where("(LOWER(recipes.title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(recipes.description) LIKE ? ESCAPE '"+likeEscape+"' OR "+s.tagMatch()+")",
			like, like, like)
	}
	if filter.Category != nil {
		q = q.Where("recipes.category = ?", *filter.Category)
	}
	if filter.Cuisine != nil {
		q = q.Where("recipes.cuisine = ?", *filter.Cuisine)
	}
	if filter.Difficulty != nil {
		q = q.Where("recipes.difficulty = ?", *filter.Difficulty)
	}
	if filter.MaxTime > 0 {
		q = q.Where("(recipes.prep_time + recipes.cook_time) <= ?", filter.MaxTime)
	}
	if filter.IsPublic != nil {
		q = q.Where("recipes.is_public = ?", *filter.IsPublic)
	}
	if filter.Mine {
		q = q.Where("recipes.created_by = ?", viewer)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}

	sortBy := filter.SortBy
	if !ValidRecipeSort(sortBy) {
		sortBy = "created_at"
	}
	dir := " ASC"
	if filter.SortDesc {
		dir = " DESC"
	}

	listQ := q.Select("recipes.*")
	if sortBy == "average_rating" {
		listQ = listQ.Joins("LEFT JOIN (SELECT recipe_id, AVG(rating) AS avg_rating FROM recipe_ratings GROUP BY recipe_id) rating_stats ON rating_stats.recipe_id = recipes.id")
	}

	var recipes []models.Recipe
	err := listQ.Order(recipeSortColumns[sortBy] + dir).
		Order("recipes.id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}

	items, err := s.project(ctx, viewer, recipes)
	if err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}
	return types.NewPage(items, page, total), nil
}

// ListSaved returns the recipes viewer saved that are still visible, most recently saved first
func (s *RecipeService) ListSaved(ctx context.Context, viewer uuid.UUID, page types.PageRequest) (types.Page[types.RecipeResponse], error) {
	q := visible(s.db.WithContext(ctx).Model(&models.Recipe{}), viewer).
		Joins("JOIN recipe_saves ON recipe_saves.recipe_id = recipes.id AND recipe_saves.user_id = ?", viewer).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}

	var recipes []models.Recipe
	err := q.Select("recipes.*").
		Order("recipe_saves.created_at DESC").Order("recipes.id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&recipes).Error
	if err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}

	items, err := s.project(ctx, viewer, recipes)
	if err != nil {
		return types.Page[types.RecipeResponse]{}, err
	}
	return types.NewPage(items, page, total), nil
}

// findVisible loads a recipe the viewer may see; anything else is ErrNotFound
func (s *RecipeService) findVisible(db *gorm.DB, viewer, id uuid.UUID) (*models.Recipe, error) {
	var r models.Recipe
	if err := visible(db.Model(&models.Recipe{}), viewer).Where("recipes.id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// findOwned loads a recipe for modification by viewer
func (s *RecipeService) findOwned(db *gorm.DB, viewer, id uuid.UUID) (*models.Recipe, error) {
	var r models.Recipe
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.CreatedBy != viewer {
		return nil, ErrForbidden
	}
	return &r, nil
}

func (s *RecipeService) Get(ctx context.Context, viewer, id uuid.UUID) (*types.RecipeResponse, error) {
	r, err := s.findVisible(s.db.WithContext(ctx), viewer, id)
	if err != nil {
		return nil, err
	}
	return s.projectOne(ctx, viewer, r)
}

func ingredientsFrom(in []types.IngredientInput) models.Ingredients {
	out := make(models.Ingredients, 0, len(in))
	for _, i := range in {
		out = append(out, models.Ingredient{
			Name:     strings.TrimSpace(i.Name),
			Quantity: strings.TrimSpace(i.Quantity),
			Optional: i.Optional,
		})
	}
	return out
}

func instructionsFrom(in []string) models.JSONBStringArray {
	out := make(models.JSONBStringArray, 0, len(in))
	for _, step := range in {
		if step = strings.TrimSpace(step); step != "" {
			out = append(out, step)
		}
	}
	return out
}

func nutritionFrom(in *types.NutritionInput) *models.Nutrition {
	if in == nil {
		return nil
	}
	n := models.Nutrition(*in)
	return &n
}

func validateRecipe(r *models.Recipe, verr *ValidationError) {
	r.Title = requireText(verr, "title", r.Title, 100)
	r.Description = requireText(verr, "description", r.Description, 500)
	if len(r.Ingredients) == 0 {
		verr.Add("ingredients", "at least one ingredient is required")
	}
	for i, ing := range r.Ingredients {
		if ing.Name == "" {
			verr.Add(indexPrefix("ingredients", i)+"name", "is required")
		}
	}
	if len(r.Instructions) == 0 {
		verr.Add("instructions", "at least one step is required")
	}
	if r.PrepTime < 1 {
		verr.Add("prep_time", "must be at least 1 minute")
	}
	if r.CookTime < 0 {
		verr.Add("cook_time", "cannot be negative")
	}
	if r.Servings < 1 {
		verr.Add("servings", "must be at least 1")
	}
	if _, err := models.ParseRecipeCategory(string(r.Category)); err != nil {
		verr.Add("category", err.Error())
	}
	if _, err := models.ParseDifficulty(string(r.Difficulty)); err != nil {
		verr.Add("difficulty", err.Error())
	}
	if _, err := models.ParseCuisine(string(r.Cuisine)); err != nil {
		verr.Add("cuisine", err.Error())
	}
	if n := r.Nutrition; n != nil {
		if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 || n.Fiber < 0 || n.Sugar < 0 {
			verr.Add("nutrition", "values cannot be negative")
		}
	}
}

func (s *RecipeService) Create(ctx context.Context, owner uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	r := &models.Recipe{
		Title:         req.Title,
		Description:   req.Description,
		ImageURL:      strings.TrimSpace(req.ImageURL),
		VideoURL:      strings.TrimSpace(req.VideoURL),
		Ingredients:   ingredientsFrom(req.Ingredients),
		Instructions:  instructionsFrom(req.Instructions),
		PrepTime:      req.PrepTime,
		Servings:      req.Servings,
		Difficulty:    req.Difficulty,
		Category:      req.Category,
		Cuisine:       req.Cuisine,
		Tags:          normalizeTags(req.Tags),
		Nutrition:     nutritionFrom(req.Nutrition),
		IsAIGenerated: req.IsAIGenerated,
		AIPrompt:      strings.TrimSpace(req.AIPrompt),
		IsPublic:      true,
		CreatedBy:     owner,
	}
	if req.CookTime != nil {
		r.CookTime = *req.CookTime
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
	if r.Difficulty == "" {
		r.Difficulty = models.DifficultyMedium
	}
	if r.Cuisine == "" {
		r.Cuisine = models.CuisineOther
	}

	verr := &ValidationError{}
	validateRecipe(r, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"recipe_id": r.ID, "user_id": owner}).Info("Recipe created")
	return s.projectOne(ctx, owner, r)
}

// Update applies a partial update. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, viewer, id uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	r, err := s.findOwned(s.db.WithContext(ctx), viewer, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.ImageURL != nil {
		r.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.VideoURL != nil {
		r.VideoURL = strings.TrimSpace(*req.VideoURL)
	}
	if req.Ingredients != nil {
		r.Ingredients = ingredientsFrom(req.Ingredients)
	}
	if req.Instructions != nil {
		r.Instructions = instructionsFrom(req.Instructions)
	}
	if req.PrepTime != nil {
		r.PrepTime = *req.PrepTime
	}
	if req.CookTime != nil {
		r.CookTime = *req.CookTime
	}
	if req.Servings != nil {
		r.Servings = *req.Servings
	}
	if req.Difficulty != nil && *req.Difficulty != "" {
		r.Difficulty = *req.Difficulty
	}
	if req.Category != nil && *req.Category != "" {
		r.Category = *req.Category
	}
	if req.Cuisine != nil && *req.Cuisine != "" {
		r.Cuisine = *req.Cuisine
	}
	if req.Tags != nil {
		r.Tags = normalizeTags(req.Tags)
	}
	if req.Nutrition != nil {
		r.Nutrition = nutritionFrom(req.Nutrition)
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}

	verr := &ValidationError{}
	validateRecipe(r, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(r).Error; err != nil {
		return nil, err
	}
	return s.projectOne(ctx, viewer, r)
}

// Delete removes a recipe and its likes, saves and ratings together
func (s *RecipeService) Delete(ctx context.Context, viewer, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.findOwned(tx, viewer, id)
		if err != nil {
			return err
		}
		for _, m := range []interface{}{&models.RecipeLike{}, &models.RecipeSave{}, &models.RecipeRating{}} {
			if err := tx.Where("recipe_id = ?", r.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(r).Error
	})
}

// toggle flips the (recipe, user) row in model's table and returns the new state and row count
func (s *RecipeService) toggle(ctx context.Context, recipeID, userID uuid.UUID, model interface{}, create func() interface{}) (types.ToggleResult, error) {
	var result types.ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findVisible(tx, userID, recipeID); err != nil {
			return err
		}

		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(create()).Error; err != nil {
				return err
			}
			result.Active = true
		}
		return tx.Model(model).Where("recipe_id = ?", recipeID).Count(&result.Count).Error
	})
	return result, err
}

// ToggleLike likes the recipe for userID, or removes the like if present
func (s *RecipeService) ToggleLike(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error) {
	return s.toggle(ctx, recipeID, userID, &models.RecipeLike{}, func() interface{} {
		return &models.RecipeLike{RecipeID: recipeID, UserID: userID}
	})
}

// ToggleSave saves the recipe for userID, or removes the save if present
func (s *RecipeService) ToggleSave(ctx context.Context, recipeID, userID uuid.UUID) (types.ToggleResult, error) {
	return s.toggle(ctx, recipeID, userID, &models.RecipeSave{}, func() interface{} {
		return &models.RecipeSave{RecipeID: recipeID, UserID: userID}
	})
}

type ratingAggregate struct {
	RecipeID uuid.UUID
	Count    int64
	Sum      int64
}

// Rate records userID's rating, replacing any earlier one, and returns the new average
func (s *RecipeService) Rate(ctx context.Context, recipeID, userID uuid.UUID, rating int, comment string) (*types.RatingResult, error) {
	if !pantry.ValidRating(rating) {
		return nil, NewValidationError("rating", "must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	verr := &ValidationError{}
	checkLength(verr, "comment", comment, 500)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	result := &types.RatingResult{Rating: rating}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findVisible(tx, userID, recipeID); err != nil {
			return err
		}

		row := &models.RecipeRating{
			RecipeID:  recipeID,
			UserID:    userID,
			Rating:    rating,
			Comment:   comment,
			CreatedAt: tx.NowFunc(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "created_at"}),
		}).Create(row).Error
		if err != nil {
			return err
		}

		var agg ratingAggregate
		if err := tx.Model(&models.RecipeRating{}).
			Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
			Where("recipe_id = ?", recipeID).
			Scan(&agg).Error; err != nil {
			return err
		}
		result.RatingsCount = agg.Count
		result.AverageRating = pantry.RoundedMean(agg.Sum, agg.Count)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RecipeService) projectOne(ctx context.Context, viewer uuid.UUID, r *models.Recipe) (*types.RecipeResponse, error) {
	items, err := s.project(ctx, viewer, []models.Recipe{*r})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

type recipeCount struct {
	RecipeID uuid.UUID
	Count    int64
}

// project attaches counts, average rating, author and caller-relative flags in a fixed number of queries
func (s *RecipeService) project(ctx context.Context, viewer uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	out := make([]types.RecipeResponse, len(recipes))
	if len(recipes) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		authorIDs = append(authorIDs, recipes[i].CreatedBy)
	}
	db := s.db.WithContext(ctx)

	counts := func(model interface{}) (map[uuid.UUID]int64, error) {
		var rows []recipeCount
		err := db.Model(model).
			Select("recipe_id, COUNT(*) AS count").
			Where("recipe_id IN ?", ids).
			Group("recipe_id").
			Scan(&rows).Error
		m := make(map[uuid.UUID]int64, len(rows))
		for _, r := range rows {
			m[r.RecipeID] = r.Count
		}
		return m, err
	}
	mine := func(model interface{}) (map[uuid.UUID]bool, error) {
		var rows []uuid.UUID
		err := db.Model(model).
			Where("user_id = ? AND recipe_id IN ?", viewer, ids).
			Pluck("recipe_id", &rows).Error
		m := make(map[uuid.UUID]bool, len(rows))
		for _, id := range rows {
			m[id] = true
		}
		return m, err
	}

	likes, err := counts(&models.RecipeLike{})
	if err != nil {
		return nil, err
	}
	saves, err := counts(&models.RecipeSave{})
	if err != nil {
		return nil, err
	}
	liked, err := mine(&models.RecipeLike{})
	if err != nil {
		return nil, err
	}
	saved, err := mine(&models.RecipeSave{})
	if err != nil {
		return nil, err
	}

	var aggs []ratingAggregate
	if err := db.Model(&models.RecipeRating{}).
		Select("recipe_id, COUNT(*) AS count, SUM(rating) AS sum").
		Where("recipe_id IN ?", ids).
		Group("recipe_id").
		Scan(&aggs).Error; err != nil {
		return nil, err
	}
	ratings := make(map[uuid.UUID]ratingAggregate, len(aggs))
	for _, a := range aggs {
		ratings[a.RecipeID] = a
	}

	var myRatings []models.RecipeRating
	if err := db.Where("user_id = ? AND recipe_id IN ?", viewer, ids).Find(&myRatings).Error; err != nil {
		return nil, err
	}
	myRating := make(map[uuid.UUID]int, len(myRatings))
	for _, r := range myRatings {
		myRating[r.RecipeID] = r.Rating
	}

	var authors []models.User
	if err := db.Where("id IN ?", authorIDs).Find(&authors).Error; err != nil {
		return nil, err
	}
	authorByID := make(map[uuid.UUID]types.PublicUser, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = types.NewPublicUser(&authors[i])
	}

	for i := range recipes {
		r := &recipes[i]
		agg := ratings[r.ID]
		resp := types.RecipeResponse{
			Recipe:        *r,
			TotalTime:     r.TotalTime(),
			AverageRating: pantry.RoundedMean(agg.Sum, agg.Count),
			RatingsCount:  agg.Count,
			LikesCount:    likes[r.ID],
			SavesCount:    saves[r.ID],
			LikedByMe:     liked[r.ID],
			SavedByMe:     saved[r.ID],
		}
		if author, ok := authorByID[r.CreatedBy]; ok {
			resp.Author = &author
		}
		if v, ok := myRating[r.ID]; ok {
			resp.MyRating = &v
		}
		out[i] = resp
	}
	return out, nil
}
