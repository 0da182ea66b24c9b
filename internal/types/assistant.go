package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneratedRecipe is a recipe draft that can be posted back to create a recipe
type GeneratedRecipe struct {
	Recipe     CreateRecipeRequest `json:"recipe"`
	Confidence float64             `json:"confidence"`
}

type Recommendation struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	MatchingIngredients []string `json:"matching_ingredients"`
	MissingIngredients  []string `json:"missing_ingredients"`
	Difficulty          string   `json:"difficulty"`
	CookTime            int      `json:"cook_time"`
	Confidence          float64  `json:"confidence"`
}

type RecommendationsResponse struct {
	Recommendations   []Recommendation `json:"recommendations"`
	TotalIngredients  int              `json:"total_ingredients"`
	PantryUtilization int              `json:"pantry_utilization,omitempty"`
	Message           string           `json:"message,omitempty"`
}

// NutritionFacts extends the stored nutrition fields with sodium, in grams except calories and sodium (mg)
type NutritionFacts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

type NutritionAnalysis struct {
	Total           NutritionFacts `json:"total"`
	PerServing      NutritionFacts `json:"per_serving"`
	Servings        int            `json:"servings"`
	HealthScore     int            `json:"health_score"`
	Recommendations []string       `json:"recommendations"`
}

type Substitute struct {
	Name  string `json:"name"`
	Ratio string `json:"ratio"`
	Notes string `json:"notes"`
}

type SubstitutesResponse struct {
	Ingredient  string       `json:"ingredient"`
	Substitutes []Substitute `json:"substitutes"`
	Reason      string       `json:"reason"`
	Confidence  float64      `json:"confidence"`
}

type Optimization struct {
	WasteReduction int      `json:"waste_reduction"`
	CostSavings    int      `json:"cost_savings"`
	Suggestions    []string `json:"suggestions"`
	UsedFromPantry []string `json:"used_from_pantry"`
}

type OptimizationResponse struct {
	Optimization Optimization `json:"optimization"`
	Message      string       `json:"message"`
}

// TicketResult is what a receipt scan yields; Products can be sent to the bulk product endpoint
type TicketResult struct {
	Products    []ProductRequest `json:"products"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Store       string           `json:"store"`
	Date        time.Time        `json:"date"`
	Confidence  float64          `json:"confidence"`
}

type TicketHistory struct {
	Tickets []TicketResult `json:"tickets"`
	Total   int            `json:"total"`
}

type ImageValidation struct {
	IsValid bool    `json:"is_valid"`
	Format  *string `json:"format"`
	Message string  `json:"message"`
}
