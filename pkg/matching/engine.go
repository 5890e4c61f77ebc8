// Package matching computes recipe-to-pantry cookability and shopping
// needs. The engine is a read-only computation over a snapshot of recipe
// and pantry data; it never writes and is safe to invoke concurrently.
package matching

import (
	"math"

	"recipenow-backend/domain"
	"recipenow-backend/entities"
	"recipenow-backend/pkg/normalize"
)

// pantryEntry is one pantry item prepared for comparison.
type pantryEntry struct {
	id     string
	norm   string
	tokens []string
}

func buildPantryIndex(items []*entities.PantryItem) []pantryEntry {
	index := make([]pantryEntry, 0, len(items))
	for _, item := range items {
		if item.NameNorm == "" {
			continue
		}
		index = append(index, pantryEntry{
			id:     item.ID.String(),
			norm:   item.NameNorm,
			tokens: normalize.Tokens(item.NameNorm),
		})
	}
	return index
}

// overridePantryIndex builds an ephemeral index from raw names, used when a
// caller wants to match against a hypothetical pantry without persisting it.
func overridePantryIndex(names []string) []pantryEntry {
	index := make([]pantryEntry, 0, len(names))
	for _, name := range names {
		norm := normalize.Name(name)
		if norm == "" {
			continue
		}
		index = append(index, pantryEntry{norm: norm, tokens: normalize.Tokens(norm)})
	}
	return index
}

// findPantryMatch reports whether any pantry entry covers the ingredient
// name. A match is an exact normalized-name equality or a token-subset
// relation in either direction, so "chopped red onion" matches a pantry
// "onion" and a pantry "red onion" matches an ingredient "onion".
func findPantryMatch(nameNorm string, index []pantryEntry) (string, bool) {
	if nameNorm == "" {
		return "", false
	}
	tokens := normalize.Tokens(nameNorm)

	for _, entry := range index {
		if entry.norm == nameNorm {
			return entry.id, true
		}
		if tokenSubset(entry.tokens, tokens) || tokenSubset(tokens, entry.tokens) {
			return entry.id, true
		}
	}
	return "", false
}

// tokenSubset reports whether every token of sub occurs in super.
func tokenSubset(sub, super []string) bool {
	if len(sub) == 0 {
		return false
	}
	set := make(map[string]bool, len(super))
	for _, tok := range super {
		set[tok] = true
	}
	for _, tok := range sub {
		if !set[tok] {
			return false
		}
	}
	return true
}

// matchRecipe evaluates one recipe against a prepared pantry index. Optional
// ingredients are reported but excluded from the percentage denominator; a
// recipe with no required ingredients yields a defined zero, never a
// division error.
func matchRecipe(recipe *entities.Recipe, index []pantryEntry) domain.RecipeMatchResult {
	result := domain.RecipeMatchResult{
		RecipeID:           recipe.ID.String(),
		Title:              recipe.Title,
		Status:             recipe.Status,
		IngredientMatches:  make([]domain.IngredientMatch, 0, len(recipe.Ingredients)),
		MissingIngredients: make([]domain.IngredientMatch, 0),
		MissingOptional:    make([]domain.IngredientMatch, 0),
	}

	for _, ingredient := range recipe.Ingredients {
		norm := ingredient.NameNorm
		if norm == "" {
			norm = normalize.Name(ingredient.OriginalText)
		}
		pantryID, found := findPantryMatch(norm, index)

		match := domain.IngredientMatch{
			OriginalText: ingredient.OriginalText,
			NameNorm:     norm,
			Quantity:     ingredient.Quantity,
			Unit:         ingredient.Unit,
			Optional:     ingredient.Optional,
			Found:        found,
			PantryItemID: pantryID,
		}
		result.IngredientMatches = append(result.IngredientMatches, match)

		if ingredient.Optional {
			if !found {
				result.MissingOptional = append(result.MissingOptional, match)
			}
			continue
		}
		result.TotalIngredients++
		if found {
			result.MatchedIngredients++
		} else {
			result.MissingIngredients = append(result.MissingIngredients, match)
		}
	}

	if result.TotalIngredients > 0 {
		pct := float64(result.MatchedIngredients) / float64(result.TotalIngredients) * 100
		result.MatchPercentage = math.Round(pct*10) / 10
	}
	return result
}
