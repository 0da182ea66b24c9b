package models

import (
	"fmt"
	"strings"
)

// Unit is the measurement unit of a pantry product
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitPieces     Unit = "piezas"
	UnitCans       Unit = "latas"
	UnitPackages   Unit = "paquetes"
)

// Category is the food category of a pantry product
type Category string

const (
	CategoryFruits     Category = "frutas"
	CategoryVegetables Category = "verduras"
	CategoryMeat       Category = "carnes"
	CategoryFish       Category = "pescados"
	CategoryDairy      Category = "lacteos"
	CategoryCereals    Category = "cereales"
	CategoryLegumes    Category = "legumbres"
	CategorySpices     Category = "especias"
	CategoryOils       Category = "aceites"
	CategoryOther      Category = "otros"
)

// Location is where a pantry product is stored
type Location string

const (
	LocationPantry  Location = "despensa"
	LocationFridge  Location = "nevera"
	LocationFreezer Location = "congelador"
)

// Difficulty of a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RecipeCategory is the meal a recipe belongs to
type RecipeCategory string

const (
	RecipeBreakfast RecipeCategory = "desayuno"
	RecipeLunch     RecipeCategory = "almuerzo"
	RecipeDinner    RecipeCategory = "cena"
	RecipeDessert   RecipeCategory = "postre"
	RecipeSnack     RecipeCategory = "snack"
	RecipeDrink     RecipeCategory = "bebida"
)

// Cuisine of a recipe or a user's favourite cuisine
type Cuisine string

const (
	CuisineMexican       Cuisine = "mexican"
	CuisineItalian       Cuisine = "italian"
	CuisineAsian         Cuisine = "asian"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineAmerican      Cuisine = "american"
	CuisineIndian        Cuisine = "indian"
	CuisineFrench        Cuisine = "french"
	CuisineSpanish       Cuisine = "spanish"
	CuisineOther         Cuisine = "other"
)

// DietaryRestriction a user can declare in their preferences
type DietaryRestriction string

const (
	DietVegetarian DietaryRestriction = "vegetarian"
	DietVegan      DietaryRestriction = "vegan"
	DietGlutenFree DietaryRestriction = "gluten_free"
	DietDairyFree  DietaryRestriction = "dairy_free"
	DietNutFree    DietaryRestriction = "nut_free"
	DietLowCarb    DietaryRestriction = "low_carb"
	DietKeto       DietaryRestriction = "keto"
)

// CookingSkill is the self-declared skill level of a user
type CookingSkill string

const (
	SkillBeginner     CookingSkill = "beginner"
	SkillIntermediate CookingSkill = "intermediate"
	SkillAdvanced     CookingSkill = "advanced"
)

var (
	Units               = []Unit{UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPieces, UnitCans, UnitPackages}
	Categories          = []Category{CategoryFruits, CategoryVegetables, CategoryMeat, CategoryFish, CategoryDairy, CategoryCereals, CategoryLegumes, CategorySpices, CategoryOils, CategoryOther}
	Locations           = []Location{LocationPantry, LocationFridge, LocationFreezer}
	Difficulties        = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
	RecipeCategories    = []RecipeCategory{RecipeBreakfast, RecipeLunch, RecipeDinner, RecipeDessert, RecipeSnack, RecipeDrink}
	Cuisines            = []Cuisine{CuisineMexican, CuisineItalian, CuisineAsian, CuisineMediterranean, CuisineAmerican, CuisineIndian, CuisineFrench, CuisineSpanish, CuisineOther}
	DietaryRestrictions = []DietaryRestriction{DietVegetarian, DietVegan, DietGlutenFree, DietDairyFree, DietNutFree, DietLowCarb, DietKeto}
	CookingSkills       = []CookingSkill{SkillBeginner, SkillIntermediate, SkillAdvanced}
)

// InvalidEnumError is returned when a value is outside a closed set
type InvalidEnumError struct {
	Kind  string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
}

func parseEnum[T ~string](kind string, allowed []T, s string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if a == v {
			return v, nil
		}
	}
	return "", &InvalidEnumError{Kind: kind, Value: s}
}

// unmarshalEnum leaves the zero value for an empty string so callers can apply defaults
func unmarshalEnum[T ~string](dst *T, kind string, allowed []T, text []byte) error {
	if len(text) == 0 {
		*dst = ""
		return nil
	}
	v, err := parseEnum(kind, allowed, string(text))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func ParseUnit(s string) (Unit, error)         { return parseEnum("unit", Units, s) }
func ParseCategory(s string) (Category, error) { return parseEnum("category", Categories, s) }
func ParseLocation(s string) (Location, error) { return parseEnum("location", Locations, s) }
func ParseDifficulty(s string) (Difficulty, error) {
	return parseEnum("difficulty", Difficulties, s)
}
func ParseRecipeCategory(s string) (RecipeCategory, error) {
	return parseEnum("recipe category", RecipeCategories, s)
}
func ParseCuisine(s string) (Cuisine, error) { return parseEnum("cuisine", Cuisines, s) }
func ParseDietaryRestriction(s string) (DietaryRestriction, error) {
	return parseEnum("dietary restriction", DietaryRestrictions, s)
}
func ParseCookingSkill(s string) (CookingSkill, error) {
	return parseEnum("cooking skill", CookingSkills, s)
}

func (u *Unit) UnmarshalText(text []byte) error { return unmarshalEnum(u, "unit", Units, text) }
func (c *Category) UnmarshalText(text []byte) error {
	return unmarshalEnum(c, "category", Categories, text)
}
func (l *Location) UnmarshalText(text []byte) error {
	return unmarshalEnum(l, "location", Locations, text)
}
func (d *Difficulty) UnmarshalText(text []byte) error {
	return unmarshalEnum(d, "difficulty", Difficulties, text)
}
func (r *RecipeCategory) UnmarshalText(text []byte) error {
	return unmarshalEnum(r, "recipe category", RecipeCategories, text)
}
func (c *Cuisine) UnmarshalText(text []byte) error {
	return unmarshalEnum(c, "cuisine", Cuisines, text)
}
func (d *DietaryRestriction) UnmarshalText(text []byte) error {
	return unmarshalEnum(d, "dietary restriction", DietaryRestrictions, text)
}
func (s *CookingSkill) UnmarshalText(text []byte) error {
	return unmarshalEnum(s, "cooking skill", CookingSkills, text)
}
