// Package fieldpath models the dotted/indexed keys that address one leaf of
// a recipe ("title", "ingredients[2].quantity", "steps[0].text"). Spans and
// field statuses are stored under these keys, so every producer goes through
// this package instead of formatting strings ad hoc.
package fieldpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

type Kind string

const (
	KindTitle      Kind = "title"
	KindServings   Kind = "servings"
	KindTimes      Kind = "times"
	KindTags       Kind = "tags"
	KindNutrition  Kind = "nutrition"
	KindIngredient Kind = "ingredients"
	KindStep       Kind = "steps"
)

// Sub addresses a field inside an indexed element.
type Sub string

const (
	SubOriginalText Sub = "original_text"
	SubNameNorm     Sub = "name_norm"
	SubQuantity     Sub = "quantity"
	SubUnit         Sub = "unit"
	SubText         Sub = "text"
)

var ErrInvalidPath = errors.New("invalid field path")

var ingredientSubs = map[Sub]bool{
	SubOriginalText: true,
	SubNameNorm:     true,
	SubQuantity:     true,
	SubUnit:         true,
}

// Path uniquely addresses one leaf of the recipe structure. Index and Sub are
// only meaningful for the indexed kinds (ingredients, steps).
type Path struct {
	Kind  Kind
	Index int
	Sub   Sub
}

func Title() Path     { return Path{Kind: KindTitle} }
func Servings() Path  { return Path{Kind: KindServings} }
func Times() Path     { return Path{Kind: KindTimes} }
func Tags() Path      { return Path{Kind: KindTags} }
func Nutrition() Path { return Path{Kind: KindNutrition} }

// Ingredients and Steps address the whole region rather than one element,
// used for region-level missing statuses.
func Ingredients() Path { return Path{Kind: KindIngredient} }
func Steps() Path       { return Path{Kind: KindStep} }

func Ingredient(index int, sub Sub) Path {
	return Path{Kind: KindIngredient, Index: index, Sub: sub}
}

func Step(index int) Path {
	return Path{Kind: KindStep, Index: index, Sub: SubText}
}

func (p Path) Indexed() bool {
	return (p.Kind == KindIngredient || p.Kind == KindStep) && p.Sub != ""
}

func (p Path) String() string {
	if p.Indexed() {
		return fmt.Sprintf("%s[%d].%s", p.Kind, p.Index, p.Sub)
	}
	return string(p.Kind)
}

var indexedRe = regexp.MustCompile(`^(ingredients|steps)\[(\d+)\]\.([a-z_]+)$`)

// Parse converts a stored key back into a Path. It rejects anything that does
// not address a known leaf, so a bad key surfaces at the boundary instead of
// silently producing an orphan status row.
func Parse(s string) (Path, error) {
	switch Kind(s) {
	case KindTitle, KindServings, KindTimes, KindTags, KindNutrition,
		KindIngredient, KindStep:
		return Path{Kind: Kind(s)}, nil
	}

	m := indexedRe.FindStringSubmatch(s)
	if m == nil {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}

	index, err := strconv.Atoi(m[2])
	if err != nil {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}

	kind, sub := Kind(m[1]), Sub(m[3])
	switch kind {
	case KindIngredient:
		if !ingredientSubs[sub] {
			return Path{}, fmt.Errorf("%w: unknown ingredient field %q", ErrInvalidPath, s)
		}
	case KindStep:
		if sub != SubText {
			return Path{}, fmt.Errorf("%w: unknown step field %q", ErrInvalidPath, s)
		}
	}

	return Path{Kind: kind, Index: index, Sub: sub}, nil
}
