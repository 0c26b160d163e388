package evaluation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"interviewcoach/internal/model"
)

// Rubric list bounds
const (
	MinMustHave      = 3
	MaxMustHave      = 8
	MaxGoodToHave    = 6
	MaxRedFlags      = 8
	MaxItemLength    = 100
	MaxTagsPerPoint  = 5
	minTagLength     = 4
	weightMustHave   = 1.0
	weightGoodToHave = 0.5
	weightRedFlag    = -1.5
)

var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "also": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {}, "both": {},
	"could": {}, "does": {}, "doing": {}, "during": {}, "each": {}, "from": {},
	"further": {}, "have": {}, "having": {}, "here": {}, "into": {}, "just": {},
	"more": {}, "most": {}, "much": {}, "must": {}, "only": {}, "other": {},
	"over": {}, "same": {}, "should": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "under": {}, "until": {},
	"very": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {}, "yours": {},
}

// ValidationError lists every rule a rubric broke
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "rubric validation failed: " + strings.Join(e.Problems, "; ")
}

// ValidateRubric checks the structural rules of a raw rubric.
// It returns *ValidationError with every violation, or nil.
func ValidateRubric(r model.Rubric) error {
	var problems []string

	lists := []struct {
		name  string
		items []string
		min   int
		max   int
	}{
		{"mustHave", r.MustHave, MinMustHave, MaxMustHave},
		{"goodToHave", r.GoodToHave, 0, MaxGoodToHave},
		{"redFlags", r.RedFlags, 0, MaxRedFlags},
	}

	// normalized item -> lists it appears in
	owners := make(map[string][]string)
	var order []string

	for _, l := range lists {
		if len(l.items) < l.min {
			problems = append(problems, fmt.Sprintf("%s must have at least %d items (got %d)", l.name, l.min, len(l.items)))
		}
		if len(l.items) > l.max {
			problems = append(problems, fmt.Sprintf("%s must have at most %d items (got %d)", l.name, l.max, len(l.items)))
		}

		seen := make(map[string]bool)
		for i, item := range l.items {
			key := normalizeItem(item)
			if key == "" {
				problems = append(problems, fmt.Sprintf("%s item %d is empty", l.name, i+1))
				continue
			}
			if l.name == "mustHave" && utf8.RuneCountInString(strings.TrimSpace(item)) > MaxItemLength {
				problems = append(problems, fmt.Sprintf("mustHave item %d exceeds %d characters", i+1, MaxItemLength))
			}
			if seen[key] {
				problems = append(problems, fmt.Sprintf("%s contains duplicate item %q", l.name, strings.TrimSpace(item)))
				continue
			}
			seen[key] = true
			if _, ok := owners[key]; !ok {
				order = append(order, key)
			}
			owners[key] = append(owners[key], l.name)
		}
	}

	for _, key := range order {
		if names := owners[key]; len(names) > 1 {
			problems = append(problems, fmt.Sprintf("duplicate item across rubric lists %q (%s)", key, strings.Join(names, ", ")))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// NormalizeRubric validates the rubric and turns it into ordered points
func NormalizeRubric(r model.Rubric) ([]model.RubricPoint, error) {
	if err := ValidateRubric(r); err != nil {
		return nil, err
	}
	return NormalizePoints(r), nil
}

// NormalizePoints converts a rubric without validating it.
// Order is mustHave, goodToHave, redFlags; text is kept verbatim.
func NormalizePoints(r model.Rubric) []model.RubricPoint {
	points := make([]model.RubricPoint, 0, len(r.MustHave)+len(r.GoodToHave)+len(r.RedFlags))
	points = appendPoints(points, model.PointMustHave, weightMustHave, r.MustHave)
	points = appendPoints(points, model.PointGoodToHave, weightGoodToHave, r.GoodToHave)
	points = appendPoints(points, model.PointRedFlag, weightRedFlag, r.RedFlags)
	return points
}

func appendPoints(points []model.RubricPoint, t model.PointType, weight float64, items []string) []model.RubricPoint {
	for i, text := range items {
		points = append(points, model.RubricPoint{
			ID:     fmt.Sprintf("%s_%d", t, i),
			Type:   t,
			Text:   text,
			Tags:   ExtractTags(text),
			Weight: weight,
		})
	}
	return points
}

// ExtractTags derives up to five keyword tags from a phrase
func ExtractTags(text string) []string {
	tokens := keywords(text)
	if len(tokens) > MaxTagsPerPoint {
		tokens = tokens[:MaxTagsPerPoint]
	}
	return tokens
}

// keywords lowercases, strips punctuation, and drops short and stop words.
// Result is deduplicated and keeps first-seen order.
func keywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, text)

	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < minTagLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func normalizeItem(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
