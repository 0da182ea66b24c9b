package service

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pageza/despensa/backend/internal/models"
)

// validatePreferences normalizes p in place and records problems in verr
func validatePreferences(p *models.Preferences, verr *ValidationError) {
	p.Normalize()

	seenDiet := make(map[models.DietaryRestriction]bool)
	diets := p.DietaryRestrictions[:0]
	for _, d := range p.DietaryRestrictions {
		if _, err := models.ParseDietaryRestriction(string(d)); err != nil {
			verr.Add("preferences.dietary_restrictions", err.Error())
			continue
		}
		if !seenDiet[d] {
			seenDiet[d] = true
			diets = append(diets, d)
		}
	}
	p.DietaryRestrictions = diets

	seenCuisine := make(map[models.Cuisine]bool)
	cuisines := p.FavoriteCuisines[:0]
	for _, c := range p.FavoriteCuisines {
		if c == models.CuisineOther {
			verr.Add("preferences.favorite_cuisines", `"other" is not a favourite cuisine`)
			continue
		}
		if _, err := models.ParseCuisine(string(c)); err != nil {
			verr.Add("preferences.favorite_cuisines", err.Error())
			continue
		}
		if !seenCuisine[c] {
			seenCuisine[c] = true
			cuisines = append(cuisines, c)
		}
	}
	p.FavoriteCuisines = cuisines

	if _, err := models.ParseCookingSkill(string(p.CookingSkill)); err != nil {
		verr.Add("preferences.cooking_skill", err.Error())
	}
}

// checkLength records an error when s has more than max characters
func checkLength(verr *ValidationError, field, s string, max int) {
	if utf8.RuneCountInString(s) > max {
		verr.Add(field, "is too long")
	}
}

// requireText trims s and records an error when it is empty or too long
func requireText(verr *ValidationError, field, s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		verr.Add(field, "is required")
		return s
	}
	checkLength(verr, field, s, max)
	return s
}

// normalizeTags trims, lowercases and dedupes tags, dropping empty ones
func normalizeTags(tags []string) models.JSONBStringArray {
	out := make(models.JSONBStringArray, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func indexPrefix(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]."
}
