// Command seed_demo fills a database with demo users, pantries, recipes and follows.
// Running it twice is safe: existing users are reused.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pageza/despensa/backend/config"
	"github.com/pageza/despensa/backend/internal/database"
	"github.com/pageza/despensa/backend/internal/graph"
	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

const demoPassword = "testpassword123"

var demoUsers = []types.RegisterRequest{
	{Email: "ana@despensa.test", Name: "Ana García", Preferences: &models.Preferences{
		FavoriteCuisines: []models.Cuisine{models.CuisineSpanish, models.CuisineMediterranean},
		CookingSkill:     models.SkillAdvanced,
	}},
	{Email: "luis@despensa.test", Name: "Luis Martín", Preferences: &models.Preferences{
		DietaryRestrictions: []models.DietaryRestriction{models.DietVegetarian},
		FavoriteCuisines:    []models.Cuisine{models.CuisineItalian},
	}},
	{Email: "sofia@despensa.test", Name: "Sofía López"},
}

func days(n int) *types.Date {
	t := time.Now().AddDate(0, 0, n)
	return types.On(t.Year(), t.Month(), t.Day())
}

func qty(v float64) *float64 { return &v }

func demoPantry() []types.ProductRequest {
	return []types.ProductRequest{
		{Name: "Leche entera", Quantity: qty(1), Unit: models.UnitLiter, Category: models.CategoryDairy, Location: models.LocationFridge, ExpiryDate: days(2), Price: decimal.NewNullDecimal(decimal.RequireFromString("1.15"))},
		{Name: "Tomates", Quantity: qty(1), Unit: models.UnitKilogram, Category: models.CategoryVegetables, Location: models.LocationFridge, ExpiryDate: days(5)},
		{Name: "Manzanas", Quantity: qty(6), Unit: models.UnitPieces, Category: models.CategoryFruits, ExpiryDate: days(-1)},
		{Name: "Arroz", Quantity: qty(1), Unit: models.UnitKilogram, Category: models.CategoryCereals},
		{Name: "Aceite de oliva", Quantity: qty(1), Unit: models.UnitLiter, Category: models.CategoryOils},
	}
}

func demoRecipes() []types.CreateRecipeRequest {
	cook := 0
	public := true
	private := false
	return []types.CreateRecipeRequest{
		{
			Title:       "Gazpacho andaluz",
			Description: "Sopa fría de tomate para el verano",
			Ingredients: []types.IngredientInput{
				{Name: "Tomates", Quantity: "1 kg"},
				{Name: "Pepino", Quantity: "1"},
				{Name: "Aceite de oliva", Quantity: "50 ml"},
			},
			Instructions: []string{"Trocear las verduras", "Triturar con el aceite", "Enfriar dos horas"},
			PrepTime:     15,
			CookTime:     &cook,
			Servings:     4,
			Difficulty:   models.DifficultyEasy,
			Category:     models.RecipeLunch,
			Cuisine:      models.CuisineSpanish,
			Tags:         []string{"verano", "sin coccion"},
			IsPublic:     &public,
		},
		{
			Title:       "Arroz con leche",
			Description: "Postre clásico de la abuela",
			Ingredients: []types.IngredientInput{
				{Name: "Arroz", Quantity: "200 g"},
				{Name: "Leche entera", Quantity: "1 l"},
				{Name: "Canela", Quantity: "1 rama", Optional: true},
			},
			Instructions: []string{"Hervir la leche con la canela", "Añadir el arroz y remover 40 minutos"},
			PrepTime:     5,
			Servings:     6,
			Category:     models.RecipeDessert,
			Cuisine:      models.CuisineSpanish,
			IsPublic:     &private,
		},
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir, log); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, nil, log)
	products := service.NewProductService(db, cfg.ExpiryThresholdDays, cfg.Location(), log)
	recipes := service.NewRecipeService(db, log)
	users := service.NewUserService(db, graph.NewGormStore(db), log)

	var seeded []*models.User
	for _, req := range demoUsers {
		req := req
		req.Password = demoPassword

		resp, err := auth.Register(ctx, &req)
		if errors.Is(err, service.ErrEmailTaken) {
			log.WithField("email", req.Email).Info("Demo user already exists, skipping")
			continue
		}
		if err != nil {
			log.WithError(err).WithField("email", req.Email).Fatal("Failed to create demo user")
		}
		seeded = append(seeded, resp.User)

		if _, err := products.CreateBulk(ctx, resp.User.ID, demoPantry()); err != nil {
			log.WithError(err).Fatal("Failed to seed pantry")
		}
		for _, r := range demoRecipes() {
			r := r
			if _, err := recipes.Create(ctx, resp.User.ID, &r); err != nil {
				log.WithError(err).Fatal("Failed to seed recipe")
			}
		}
	}

	// everyone follows the first demo user
	for i := 1; i < len(seeded); i++ {
		if _, err := users.ToggleFollow(ctx, seeded[i].ID, seeded[0].ID); err != nil {
			log.WithError(err).Fatal("Failed to seed follow")
		}
	}

	log.WithFields(logrus.Fields{
		"users":    len(seeded),
		"password": demoPassword,
	}).Info("Demo data seeded")
}
