package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"recipenow-backend/entities"
	"recipenow-backend/pkg/fieldpath"
	"recipenow-backend/pkg/normalize"

	"github.com/google/uuid"
)

// Line is one OCR line handed to the extractor, fully materialized. The
// extractor never touches storage.
type Line struct {
	ID         uuid.UUID
	Page       int
	Text       string
	BBox       []float64
	Confidence float64
}

// FieldResult is one populated draft field together with the lines that
// justify it. The binder turns these into source spans.
type FieldResult struct {
	Path   fieldpath.Path
	Text   string
	Lines  []Line
	Method string
}

// Draft is the structured recipe the extractor produced. Fields without
// evidence stay at their zero value; values are never guessed.
type Draft struct {
	Title            string
	Servings         *int
	ServingsEstimate *entities.ServingsEstimate
	Times            *entities.Times
	Ingredients      []entities.Ingredient
	Steps            []entities.Step
	Tags             []string
}

// Result pairs the draft with per-field provenance.
type Result struct {
	Draft  Draft
	Fields []FieldResult
}

var (
	titleIndicators      = wordSet("recipe", "title", "name")
	ingredientIndicators = wordSet("ingredient", "ingredients", "components", "supplies", "need")
	stepsIndicators      = wordSet("instruction", "instructions", "method", "preparation", "procedure", "direction", "directions", "step", "steps")
	servingsIndicators   = wordSet("serve", "serves", "serving", "servings", "yield", "yields", "portion", "portions", "people")
	timeIndicators       = wordSet("prep", "preparation", "cook", "cooking", "bake", "baking", "total", "time")

	tagVocabulary = wordSet(
		"vegetarian", "vegan", "gluten-free", "dairy-free", "keto", "paleo",
		"dessert", "breakfast", "lunch", "dinner", "snack", "appetizer",
		"quick", "easy", "spicy", "healthy",
	)

	reServingsLead  = regexp.MustCompile(`(?i)(?:serve|serving|yield)s?\s*:?\s*(?:of\s*)?(\d+)`)
	reServingsTrail = regexp.MustCompile(`(?i)(\d+)\s*(?:servings?|portions?|people)`)
	reAboutServings = regexp.MustCompile(`(?i)(?:about|approx\.?|around|~)\s*(\d+)`)
	reTimeValue     = regexp.MustCompile(`(?i)(\d+)\s*(hours?|hrs?|minutes?|mins?)`)
	reNumberedStep  = regexp.MustCompile(`^\s*\d+[\.\)]\s+`)
	reQuantityLead  = regexp.MustCompile(`^\s*[\d½⅓¼¾⅔⅕⅖⅛⅜⅝⅞]`)
	reBulletLead    = regexp.MustCompile(`^\s*[\*\-•·]`)
)

func wordSet(words ...string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}

// Extractor segments the OCR lines of one asset into recipe regions and
// produces draft field values. It is deterministic; re-running it on the
// same lines yields the same result.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs the rule-based pass over ordered lines (by page, then
// vertical position). Fields not matched by any rule are left absent.
func (e *Extractor) Extract(lines []Line) Result {
	var res Result
	if len(lines) == 0 {
		return res
	}

	sections := detectSections(lines)

	if title, tl, ok := extractTitle(lines, sections.titleIdx); ok {
		res.Draft.Title = title
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Title(),
			Text:   title,
			Lines:  []Line{tl},
			Method: entities.SourceMethodOCR,
		})
	}

	ingredients, ingLines := extractIngredients(lines, sections.ingredientsIdx)
	for i, ing := range ingredients {
		res.Draft.Ingredients = append(res.Draft.Ingredients, ing)
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Ingredient(i, fieldpath.SubOriginalText),
			Text:   ing.OriginalText,
			Lines:  []Line{ingLines[i]},
			Method: entities.SourceMethodOCR,
		})
	}

	steps, stepLines := extractSteps(lines, sections.stepsIdx, sections.ingredientsIdx)
	for i, st := range steps {
		res.Draft.Steps = append(res.Draft.Steps, st)
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Step(i),
			Text:   st.Text,
			Lines:  []Line{stepLines[i]},
			Method: entities.SourceMethodOCR,
		})
	}

	if servings, estimate, sl, ok := extractServings(lines); ok {
		if estimate != nil {
			res.Draft.ServingsEstimate = estimate
		} else {
			res.Draft.Servings = servings
		}
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Servings(),
			Text:   strings.TrimSpace(sl.Text),
			Lines:  []Line{sl},
			Method: entities.SourceMethodOCR,
		})
	}

	if times, tls, ok := extractTimes(lines); ok {
		res.Draft.Times = times
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Times(),
			Text:   joinTexts(tls),
			Lines:  tls,
			Method: entities.SourceMethodOCR,
		})
	}

	if tags, tgls, ok := extractTags(lines); ok {
		res.Draft.Tags = tags
		res.Fields = append(res.Fields, FieldResult{
			Path:   fieldpath.Tags(),
			Text:   joinTexts(tgls),
			Lines:  tgls,
			Method: entities.SourceMethodOCR,
		})
	}

	return res
}

type sections struct {
	titleIdx       int // index of a title header line, -1 if none
	ingredientsIdx int // index of the ingredients header line, -1 if none
	stepsIdx       int // index of the steps header line, -1 if none
}

// detectSections finds section header lines. A header is a short line whose
// tokens hit an indicator set ("Ingredients:", "What you need", "Method").
func detectSections(lines []Line) sections {
	s := sections{titleIdx: -1, ingredientsIdx: -1, stepsIdx: -1}

	for i, line := range lines {
		if !looksLikeHeader(line.Text) {
			continue
		}
		tokens := headerTokens(line.Text)

		if s.ingredientsIdx < 0 && hitsAny(tokens, ingredientIndicators) {
			s.ingredientsIdx = i
			continue
		}
		if s.stepsIdx < 0 && hitsAny(tokens, stepsIndicators) {
			s.stepsIdx = i
			continue
		}
		if s.titleIdx < 0 && hitsAny(tokens, titleIndicators) {
			s.titleIdx = i
		}
	}

	return s
}

func looksLikeHeader(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && len(fields) <= 4
}

func headerTokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ':' || r == '-' || r == '#' {
			return ' '
		}
		return r
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

func hitsAny(tokens []string, set map[string]bool) bool {
	for _, t := range tokens {
		if set[t] {
			return true
		}
	}
	return false
}

// extractTitle prefers the line after an explicit title header, otherwise
// the first substantive line near the top of the page.
func extractTitle(lines []Line, titleIdx int) (string, Line, bool) {
	if titleIdx >= 0 {
		idx := titleIdx
		if idx+1 < len(lines) && strings.TrimSpace(lines[idx+1].Text) != "" {
			idx++
		}
		title := strings.TrimSpace(lines[idx].Text)
		if title != "" {
			return title, lines[idx], true
		}
	}

	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, candidate := range lines[:limit] {
		text := strings.TrimSpace(candidate.Text)
		if len(text) > 3 && len(strings.Fields(text)) >= 2 && !reQuantityLead.MatchString(text) {
			return text, candidate, true
		}
	}

	if len(lines) > 0 {
		text := strings.TrimSpace(lines[0].Text)
		if text != "" {
			return text, lines[0], true
		}
	}
	return "", Line{}, false
}

// extractIngredients reads the block after the ingredients header, stopping
// at the steps header or the first line that no longer looks like an
// ingredient. Without a header it falls back to the first consecutive run of
// quantity- or bullet-led lines.
func extractIngredients(lines []Line, ingredientsIdx int) ([]entities.Ingredient, []Line) {
	start := -1
	if ingredientsIdx >= 0 {
		start = ingredientsIdx + 1
	} else {
		for i, line := range lines[1:] {
			if looksLikeIngredient(line.Text) {
				start = i + 1
				break
			}
		}
	}
	if start < 0 || start >= len(lines) {
		return nil, nil
	}

	var (
		ingredients []entities.Ingredient
		used        []Line
	)

	for idx := start; idx < len(lines); idx++ {
		line := lines[idx]
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		tokens := headerTokens(text)
		if looksLikeHeader(text) && hitsAny(tokens, stepsIndicators) {
			break
		}
		if looksLikeHeader(text) && hitsAny(tokens, ingredientIndicators) {
			continue
		}

		// Outside an explicit section the run ends at the first
		// non-ingredient-looking line.
		if ingredientsIdx < 0 && !looksLikeIngredient(text) {
			break
		}
		if ingredientsIdx >= 0 && reNumberedStep.MatchString(text) {
			break
		}

		parsed := normalize.ParseIngredient(text)
		if parsed.OriginalText == "" {
			continue
		}
		ingredients = append(ingredients, entities.Ingredient{
			OriginalText: parsed.OriginalText,
			NameNorm:     parsed.NameNorm,
			Quantity:     parsed.Quantity,
			Unit:         parsed.Unit,
			Optional:     parsed.Optional,
		})
		used = append(used, line)
	}

	return ingredients, used
}

// looksLikeIngredient checks the `[quantity] [unit] [name]` grammar loosely:
// a bullet or a leading quantity token.
func looksLikeIngredient(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if reBulletLead.MatchString(trimmed) && !reNumberedStep.MatchString(trimmed) {
		return true
	}
	if reNumberedStep.MatchString(trimmed) {
		return false
	}
	return reQuantityLead.MatchString(trimmed)
}

// extractSteps reads from the steps header to the end of the asset; without
// a header it takes numbered or sentence-like lines after the ingredients
// region.
func extractSteps(lines []Line, stepsIdx, ingredientsIdx int) ([]entities.Step, []Line) {
	start := -1
	explicit := stepsIdx >= 0
	if explicit {
		start = stepsIdx + 1
	} else {
		from := ingredientsIdx + 1
		if from < 1 {
			from = 1
		}
		for i := from; i < len(lines); i++ {
			text := strings.TrimSpace(lines[i].Text)
			if reNumberedStep.MatchString(text) || looksLikeSentence(text) {
				start = i
				break
			}
		}
	}
	if start < 0 || start >= len(lines) {
		return nil, nil
	}

	var (
		steps []entities.Step
		used  []Line
	)

	for idx := start; idx < len(lines); idx++ {
		line := lines[idx]
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		tokens := headerTokens(text)
		if looksLikeHeader(text) && (hitsAny(tokens, ingredientIndicators) || hitsAny(tokens, titleIndicators)) {
			break
		}
		if looksLikeHeader(text) && hitsAny(tokens, stepsIndicators) {
			continue
		}
		if !reNumberedStep.MatchString(text) && !looksLikeSentence(text) {
			if explicit {
				continue
			}
			break
		}

		steps = append(steps, entities.Step{Text: stripStepNumber(text)})
		used = append(used, line)
	}

	return steps, used
}

func looksLikeSentence(text string) bool {
	if looksLikeIngredient(text) {
		return false
	}
	return len(strings.Fields(text)) >= 4
}

func stripStepNumber(text string) string {
	return strings.TrimSpace(reNumberedStep.ReplaceAllString(text, ""))
}

// extractServings scans for a servings mention. "Serves 4" is a literal
// value; "about 4" or ranged phrasing produces an estimate that must be
// approved before it is treated as the real count.
func extractServings(lines []Line) (*int, *entities.ServingsEstimate, Line, bool) {
	for _, line := range lines {
		lower := strings.ToLower(line.Text)
		if !hitsAny(headerTokens(lower), servingsIndicators) && !strings.Contains(lower, "serv") {
			continue
		}

		var value int
		if m := reServingsLead.FindStringSubmatch(lower); m != nil {
			value, _ = strconv.Atoi(m[1])
		} else if m := reServingsTrail.FindStringSubmatch(lower); m != nil {
			value, _ = strconv.Atoi(m[1])
		} else {
			continue
		}
		if value <= 0 {
			continue
		}

		if reAboutServings.MatchString(lower) {
			confidence := 0.5
			return nil, &entities.ServingsEstimate{
				Value:      &value,
				Confidence: &confidence,
				Basis:      "hedged wording on page",
			}, line, true
		}
		return &value, nil, line, true
	}
	return nil, nil, Line{}, false
}

// extractTimes collects prep/cook/total minutes from time-looking lines.
// "1 hour 30 min" style values are summed into minutes.
func extractTimes(lines []Line) (*entities.Times, []Line, bool) {
	times := &entities.Times{}
	var used []Line

	for _, line := range lines {
		lower := strings.ToLower(line.Text)
		if !containsAnyWord(lower, timeIndicators) {
			continue
		}
		minutes, ok := parseMinutes(lower)
		if !ok || minutes <= 0 {
			continue
		}

		switch {
		case strings.Contains(lower, "prep"):
			times.PrepMin = &minutes
		case strings.Contains(lower, "cook") || strings.Contains(lower, "bake"):
			times.CookMin = &minutes
		case strings.Contains(lower, "total"):
			times.TotalMin = &minutes
		default:
			continue
		}
		used = append(used, line)
	}

	if times.PrepMin == nil && times.CookMin == nil && times.TotalMin == nil {
		return nil, nil, false
	}
	return times, used, true
}

func containsAnyWord(lower string, set map[string]bool) bool {
	for _, t := range headerTokens(lower) {
		if set[t] {
			return true
		}
	}
	return false
}

func parseMinutes(text string) (int, bool) {
	matches := reTimeValue.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	total := 0
	for _, m := range matches {
		value, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			value *= 60
		}
		total += value
	}
	return total, total > 0
}

// extractTags collects short trailing tokens matching the tag vocabulary.
func extractTags(lines []Line) ([]string, []Line, bool) {
	start := len(lines) - 3
	if start < 0 {
		start = 0
	}

	var (
		tags []string
		used []Line
		seen = map[string]bool{}
	)

	for _, line := range lines[start:] {
		if len(strings.Fields(line.Text)) > 6 {
			continue
		}
		matched := false
		for _, token := range splitTagTokens(line.Text) {
			if tagVocabulary[token] && !seen[token] {
				seen[token] = true
				tags = append(tags, token)
				matched = true
			}
		}
		if matched {
			used = append(used, line)
		}
	}

	if len(tags) == 0 {
		return nil, nil, false
	}
	return tags, used, true
}

func splitTagTokens(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|' || r == '#' || r == '\t'
	})
}

// MeanConfidence is the page-level OCR confidence used by the fallback
// decision.
func MeanConfidence(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	var sum float64
	for _, line := range lines {
		sum += line.Confidence
	}
	return sum / float64(len(lines))
}

func joinTexts(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, strings.TrimSpace(line.Text))
	}
	return strings.Join(parts, "\n")
}
