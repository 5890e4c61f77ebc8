package matching

import (
	"sort"
	"strings"

	"recipenow-backend/domain"
	"recipenow-backend/pkg/normalize"
)

// missingOccurrence is one required-but-absent ingredient from one recipe.
type missingOccurrence struct {
	recipeTitle string
	match       domain.IngredientMatch
}

// aggregateShoppingList merges missing ingredients across recipes. Items are
// grouped by normalized name plus canonical unit; quantities with the same
// unit are summed, unknown or mismatched units stay as separate groups so a
// "cup" of flour is never silently added to a "g" of flour. Occurrences
// without a quantity still count toward Count but contribute nothing to the
// sum.
func aggregateShoppingList(occurrences []missingOccurrence) []domain.ShoppingListItem {
	type group struct {
		item       domain.ShoppingListItem
		seenRecipe map[string]bool
	}

	groups := make(map[string]*group)
	var order []string

	for _, occ := range occurrences {
		unit := canonicalUnitKey(occ.match.Unit)
		key := occ.match.NameNorm + "|" + unit

		g, ok := groups[key]
		if !ok {
			g = &group{
				item: domain.ShoppingListItem{
					OriginalText: occ.match.OriginalText,
					NameNorm:     occ.match.NameNorm,
				},
				seenRecipe: make(map[string]bool),
			}
			if unit != "" {
				u := unit
				g.item.Unit = &u
			}
			groups[key] = g
			order = append(order, key)
		}

		g.item.Count++
		if occ.match.Quantity != nil {
			if g.item.TotalQuantity == nil {
				total := *occ.match.Quantity
				g.item.TotalQuantity = &total
			} else {
				*g.item.TotalQuantity += *occ.match.Quantity
			}
		}
		if occ.recipeTitle != "" && !g.seenRecipe[occ.recipeTitle] {
			g.seenRecipe[occ.recipeTitle] = true
			g.item.Recipes = append(g.item.Recipes, occ.recipeTitle)
		}
	}

	items := make([]domain.ShoppingListItem, 0, len(groups))
	for _, key := range order {
		items = append(items, groups[key].item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].NameNorm != items[j].NameNorm {
			return items[i].NameNorm < items[j].NameNorm
		}
		return unitOrEmpty(items[i].Unit) < unitOrEmpty(items[j].Unit)
	})
	return items
}

func canonicalUnitKey(unit *string) string {
	if unit == nil {
		return ""
	}
	trimmed := strings.TrimSpace(*unit)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := normalize.CanonicalUnit(trimmed); ok {
		return canonical
	}
	return strings.ToLower(trimmed)
}

func unitOrEmpty(unit *string) string {
	if unit == nil {
		return ""
	}
	return *unit
}
