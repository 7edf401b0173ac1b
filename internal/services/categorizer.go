package services

import (
	"strings"

	"github.com/ashmitsharp/moneylens-api/internal/models"
)

// MatchStrategy names the rule that resolved a suggestion
type MatchStrategy string

const (
	StrategyExact     MatchStrategy = "exact"
	StrategySubstring MatchStrategy = "substring"
	StrategyOther     MatchStrategy = "other"
	StrategyNone      MatchStrategy = "none"
)

// CategoryMatch is the outcome of resolving a model's category suggestion
type CategoryMatch struct {
	CategoryID *int64        `json:"category_id"`
	Name       string        `json:"category_name"`
	Strategy   MatchStrategy `json:"-"`
}

// categoryAliases maps the words the parsing prompt lists as examples onto the
// category keys we seed. Keys and values are already normalized.
var categoryAliases = map[string]string{
	// expense
	"makanan":      "food",
	"minuman":      "food",
	"makan":        "food",
	"restoran":     "food",
	"kafe":         "food",
	"drinks":       "food",
	"meals":        "food",
	"sosial":       "sociallife",
	"social":       "sociallife",
	"teman":        "sociallife",
	"pakaian":      "apparel",
	"baju":         "apparel",
	"sepatu":       "apparel",
	"clothes":      "apparel",
	"budaya":       "culture",
	"kecantikan":   "beauty",
	"kesehatan":    "health",
	"obat":         "health",
	"pendidikan":   "education",
	"hadiah":       "gift",
	"kado":         "gift",
	"tagihan":      "billsubscription",
	"langganan":    "billsubscription",
	"bills":        "billsubscription",
	"utilities":    "billsubscription",
	"rumahtangga":  "household",
	"transportasi": "transportation",
	"transport":    "transportation",
	"bensin":       "transportation",
	"lainnya":      "other",
	// income
	"gaji":      "work",
	"salary":    "work",
	"investasi": "investment",
	"bunga":     "interest",
}

// CategoryMatcher resolves free-form category suggestions to a user's categories.
// Strategies run in a fixed order and the first hit wins, so the same
// suggestion and category list always produce the same result.
type CategoryMatcher struct {
	strategies []matchStrategy
}

type matchStrategy struct {
	name  MatchStrategy
	match func(suggestion string, candidates []models.Category) (models.Category, bool)
}

// NewCategoryMatcher creates a matcher with the exact -> substring -> other chain
func NewCategoryMatcher() *CategoryMatcher {
	m := &CategoryMatcher{}
	m.strategies = []matchStrategy{
		{name: StrategyExact, match: m.matchExact},
		{name: StrategySubstring, match: m.matchSubstring},
		{name: StrategyOther, match: m.matchOther},
	}
	return m
}

// Resolve maps a suggestion onto one of the categories of the given type.
// When nothing matches, not even an "other" category, the suggestion is passed
// through with a nil id.
func (m *CategoryMatcher) Resolve(suggestion string, txnType models.TxnType, categories []models.Category) CategoryMatch {
	candidates := sameType(categories, txnType)
	normalized := normalizeCategory(suggestion)

	for _, s := range m.strategies {
		if c, ok := s.match(normalized, candidates); ok {
			id := c.ID
			return CategoryMatch{CategoryID: &id, Name: c.Name, Strategy: s.name}
		}
	}

	return CategoryMatch{Name: suggestion, Strategy: StrategyNone}
}

// matchExact compares normalized names
func (m *CategoryMatcher) matchExact(suggestion string, candidates []models.Category) (models.Category, bool) {
	if suggestion == "" {
		return models.Category{}, false
	}
	for _, c := range candidates {
		if normalizeCategory(c.Name) == suggestion {
			return c, true
		}
	}
	return models.Category{}, false
}

// matchSubstring accepts containment in either direction
func (m *CategoryMatcher) matchSubstring(suggestion string, candidates []models.Category) (models.Category, bool) {
	if suggestion == "" {
		return models.Category{}, false
	}
	for _, c := range candidates {
		name := normalizeCategory(c.Name)
		if name == "" {
			continue
		}
		if strings.Contains(suggestion, name) || strings.Contains(name, suggestion) {
			return c, true
		}
	}
	return models.Category{}, false
}

// matchOther falls back to the user's "other" category for the type
func (m *CategoryMatcher) matchOther(_ string, candidates []models.Category) (models.Category, bool) {
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), models.OtherCategoryName) {
			return c, true
		}
	}
	return models.Category{}, false
}

// sameType keeps categories of the transaction's type. A user with none of
// that type gets an empty list, so the suggestion passes through unmatched.
func sameType(categories []models.Category, txnType models.TxnType) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == txnType {
			out = append(out, c)
		}
	}
	return out
}

// normalizeCategory lowercases, drops '-' and '_', then applies aliases. Spaces
// are dropped as well so "eating out" and "eating-out" compare equal.
func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	if canonical, ok := categoryAliases[s]; ok {
		return canonical
	}
	return s
}
