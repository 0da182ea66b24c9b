package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/pantry"
	"github.com/pageza/despensa/backend/internal/types"
)

// AssistantService is a placeholder for the recipe assistant. Its answers are
// generated locally from the request and a random source; no model is called.
type AssistantService struct {
	db  *gorm.DB
	log logrus.FieldLogger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ IAssistantService = (*AssistantService)(nil)

// NewAssistantService creates the assistant. A nil rng seeds one from the clock.
func NewAssistantService(db *gorm.DB, rng *rand.Rand, log logrus.FieldLogger) *AssistantService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AssistantService{db: db, rng: rng, log: log}
}

// between returns a random int in [min, min+span)
func (s *AssistantService) between(min, span int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(span)
}

var draftUnits = []string{"g", "ml", "unidad", "cucharada", "taza"}

func (s *AssistantService) GenerateRecipe(ctx context.Context, userID uuid.UUID, req *types.GenerateRecipeRequest) (*types.GeneratedRecipe, error) {
	ingredients := make([]string, 0, len(req.Ingredients))
	for _, i := range req.Ingredients {
		if i = strings.TrimSpace(i); i != "" {
			ingredients = append(ingredients, i)
		}
	}
	if len(ingredients) == 0 {
		return nil, NewValidationError("ingredients", "at least one ingredient is required")
	}

	servings := req.Servings
	if servings == 0 {
		servings = 4
	}
	cookTime := req.CookTime
	if cookTime == 0 {
		cookTime = 30
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	cuisine := req.Cuisine
	if cuisine == "" {
		cuisine = models.CuisineOther
	}

	lead := ingredients
	if len(lead) > 2 {
		lead = lead[:2]
	}
	second := "el resto de ingredientes"
	if len(ingredients) > 1 {
		second = ingredients[1]
	}

	inputs := make([]types.IngredientInput, len(ingredients))
	for i, name := range ingredients {
		amount := s.between(100, 500)
		unit := draftUnits[s.between(0, len(draftUnits))]
		inputs[i] = types.IngredientInput{Name: name, Quantity: fmt.Sprintf("%d %s", amount, unit)}
	}

	tags := []string{"ia", "rapida"}
	for _, d := range req.DietaryRestrictions {
		tags = append(tags, string(d))
	}

	draft := types.CreateRecipeRequest{
		Title:       "Deliciosa receta con " + strings.Join(lead, " y "),
		Description: "Una receta que combina " + strings.Join(ingredients, ", ") + " de manera nutritiva.",
		Ingredients: inputs,
		Instructions: []string{
			"Preparar todos los ingredientes y tenerlos listos.",
			"Comenzar cocinando el ingrediente principal: " + ingredients[0] + ".",
			"Agregar " + second + " y mezclar bien.",
			"Cocinar a fuego medio durante 15-20 minutos.",
			"Sazonar al gusto y servir caliente.",
		},
		PrepTime:   s.between(10, 20),
		CookTime:   &cookTime,
		Servings:   servings,
		Difficulty: difficulty,
		Category:   models.RecipeLunch,
		Cuisine:    cuisine,
		Tags:       tags,
		Nutrition: &types.NutritionInput{
			Calories: float64(s.between(200, 400)),
			Protein:  float64(s.between(10, 30)),
			Carbs:    float64(s.between(20, 50)),
			Fat:      float64(s.between(5, 20)),
			Fiber:    float64(s.between(2, 10)),
			Sugar:    float64(s.between(3, 15)),
		},
		IsAIGenerated: true,
		AIPrompt:      "ingredientes: " + strings.Join(ingredients, ", "),
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "ingredients": len(ingredients)}).Debug("Recipe draft generated")
	return &types.GeneratedRecipe{Recipe: draft, Confidence: 0.92}, nil
}

// pantryNames lists the names of userID's products in stock, soonest expiry first
func (s *AssistantService) pantryNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("created_by = ? AND is_consumed = ?", userID, false).
		Order("CASE WHEN expiry_date IS NULL THEN 1 ELSE 0 END").
		Order("expiry_date ASC").
		Order("created_at DESC").
		Pluck("name", &names).Error
	return names, err
}

func window(items []string, from, to int) []string {
	if from > len(items) {
		from = len(items)
	}
	if to > len(items) {
		to = len(items)
	}
	return append([]string{}, items[from:to]...)
}

// Recommendations suggests dishes from what is in the user's pantry, using
// ingredients closest to expiring first
func (s *AssistantService) Recommendations(ctx context.Context, userID uuid.UUID) (*types.RecommendationsResponse, error) {
	names, err := s.pantryNames(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return &types.RecommendationsResponse{
			Recommendations: []types.Recommendation{},
			Message:         "Agrega productos a tu despensa para obtener recomendaciones personalizadas",
		}, nil
	}

	return &types.RecommendationsResponse{
		Recommendations: []types.Recommendation{
			{
				Title:               "Ensalada fresca de temporada",
				Description:         "Una ensalada nutritiva con ingredientes de tu despensa",
				MatchingIngredients: window(names, 0, 3),
				MissingIngredients:  []string{"Aceite de oliva", "Vinagre"},
				Difficulty:          string(models.DifficultyEasy),
				CookTime:            15,
				Confidence:          0.95,
			},
			{
				Title:               "Guiso casero",
				Description:         "Un plato reconfortante para cualquier ocasión",
				MatchingIngredients: window(names, 1, 4),
				MissingIngredients:  []string{"Caldo de verduras"},
				Difficulty:          string(models.DifficultyMedium),
				CookTime:            45,
				Confidence:          0.88,
			},
			{
				Title:               "Pasta rápida",
				Description:         "Una pasta lista en minutos",
				MatchingIngredients: window(names, 0, 2),
				MissingIngredients:  []string{"Pasta", "Queso parmesano"},
				Difficulty:          string(models.DifficultyEasy),
				CookTime:            20,
				Confidence:          0.82,
			},
		},
		TotalIngredients:  len(names),
		PantryUtilization: s.between(70, 30),
	}, nil
}

func (s *AssistantService) AnalyzeNutrition(ctx context.Context, req *types.AnalyzeNutritionRequest) (*types.NutritionAnalysis, error) {
	if len(req.Ingredients) == 0 {
		return nil, NewValidationError("ingredients", "at least one ingredient is required")
	}
	servings := req.Servings
	if servings <= 0 {
		servings = 1
	}

	total := types.NutritionFacts{
		Calories: float64(s.between(200, 400)),
		Protein:  float64(s.between(10, 30)),
		Carbs:    float64(s.between(20, 50)),
		Fat:      float64(s.between(5, 20)),
		Fiber:    float64(s.between(2, 10)),
		Sugar:    float64(s.between(3, 15)),
		Sodium:   float64(s.between(200, 800)),
	}
	n := float64(servings)
	per := types.NutritionFacts{
		Calories: pantry.Round1(total.Calories / n),
		Protein:  pantry.Round1(total.Protein / n),
		Carbs:    pantry.Round1(total.Carbs / n),
		Fat:      pantry.Round1(total.Fat / n),
		Fiber:    pantry.Round1(total.Fiber / n),
		Sugar:    pantry.Round1(total.Sugar / n),
		Sodium:   pantry.Round1(total.Sodium / n),
	}

	return &types.NutritionAnalysis{
		Total:       total,
		PerServing:  per,
		Servings:    servings,
		HealthScore: s.between(60, 40),
		Recommendations: []string{
			"Rica en proteínas",
			"Buena fuente de fibra",
			"Contiene vitaminas esenciales",
		},
	}, nil
}

var knownSubstitutes = map[string][]string{
	"huevo":       {"1/4 taza de puré de manzana", "1 cucharada de linaza molida + 3 cucharadas de agua", "1/4 taza de yogur"},
	"leche":       {"leche de almendras", "leche de avena", "leche de coco"},
	"mantequilla": {"aceite de coco", "puré de aguacate", "aceite de oliva"},
	"azúcar":      {"miel", "jarabe de arce", "stevia", "azúcar de coco"},
	"harina":      {"harina de almendras", "harina de avena", "harina de coco"},
}

var fallbackSubstitutes = []string{
	"Consulta con un nutricionista",
	"Busca en tiendas especializadas",
	"Considera omitir este ingrediente",
}

func (s *AssistantService) SuggestSubstitutes(ctx context.Context, req *types.SuggestSubstitutesRequest) (*types.SubstitutesResponse, error) {
	ingredient := strings.TrimSpace(req.Ingredient)
	if ingredient == "" {
		return nil, NewValidationError("ingredient", "is required")
	}
	reason := req.Reason
	if reason == "" {
		reason = "unavailable"
	}

	names, ok := knownSubstitutes[strings.ToLower(ingredient)]
	if !ok {
		names = fallbackSubstitutes
	}
	subs := make([]types.Substitute, len(names))
	for i, name := range names {
		subs[i] = types.Substitute{Name: name, Ratio: "1:1", Notes: "Ajustar según el gusto"}
	}

	return &types.SubstitutesResponse{
		Ingredient:  ingredient,
		Substitutes: subs,
		Reason:      reason,
		Confidence:  0.85,
	}, nil
}

// OptimizeRecipe suggests how to cook a recipe with less waste. When a recipe
// is given it must be visible to the user.
func (s *AssistantService) OptimizeRecipe(ctx context.Context, userID uuid.UUID, req *types.OptimizeRecipeRequest) (*types.OptimizationResponse, error) {
	var used []string
	if req.RecipeID != nil {
		var recipe models.Recipe
		err := visible(s.db.WithContext(ctx).Model(&models.Recipe{}), userID).
			Where("recipes.id = ?", *req.RecipeID).
			First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}

		available := make(map[string]bool, len(req.AvailableIngredients))
		for _, a := range req.AvailableIngredients {
			available[strings.ToLower(strings.TrimSpace(a))] = true
		}
		for _, ing := range recipe.Ingredients {
			if available[strings.ToLower(ing.Name)] {
				used = append(used, ing.Name)
			}
		}
	}
	if used == nil {
		used = []string{}
	}

	return &types.OptimizationResponse{
		Optimization: types.Optimization{
			WasteReduction: s.between(20, 30),
			CostSavings:    s.between(10, 15),
			Suggestions: []string{
				"Usar ingredientes próximos a vencer primero",
				"Ajustar porciones según disponibilidad",
				"Guardar sobras para otra receta",
			},
			UsedFromPantry: used,
		},
		Message: "Receta optimizada para reducir desperdicio",
	}, nil
}
