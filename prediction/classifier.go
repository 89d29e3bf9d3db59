package prediction

import "strings"

// CategoryInfo is the static per-category reference data: the base price
// used when no historical records exist, and the season the category is
// expected to sell best in.
type CategoryInfo struct {
	BasePrice float64
	Season    string
}

// DefaultCategory is the catch-all label for items no rule matches.
const DefaultCategory = "standard"

// SeasonAllYear marks categories without a seasonal peak.
const SeasonAllYear = "All Year"

type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules are evaluated in order; the first keyword hit wins.
// Ordering matters: "premium chocolate" should classify as premium.
var categoryRules = []categoryRule{
	{"premium", []string{"premium", "gourmet", "deluxe", "artisan", "luxury"}},
	{"seasonal", []string{"holiday", "pumpkin", "gingerbread", "peppermint", "eggnog", "spice"}},
	{"chocolate", []string{"chocolate", "choc", "cocoa", "fudge", "brownie", "mocha"}},
	{"fruit", []string{"fruit", "berry", "strawberry", "raspberry", "lemon", "orange", "apple", "raisin"}},
	{"nut", []string{"nut", "peanut", "almond", "pecan", "cashew", "macadamia"}},
}

// CategoryTable maps every known category label to its reference data.
// Read-only at runtime.
var CategoryTable = map[string]CategoryInfo{
	"premium":       {BasePrice: 6.50, Season: SeasonAllYear},
	"seasonal":      {BasePrice: 5.00, Season: "Winter"},
	"chocolate":     {BasePrice: 4.50, Season: SeasonAllYear},
	"fruit":         {BasePrice: 3.75, Season: "Summer"},
	"nut":           {BasePrice: 4.25, Season: SeasonAllYear},
	DefaultCategory: {BasePrice: 4.00, Season: SeasonAllYear},
}

// Classify maps a free-text item description to a category label.
// Deterministic: case-insensitive substring match against the ordered
// rules, default category when nothing matches.
func Classify(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return DefaultCategory
}

// CategoryFor returns the reference data for a label, falling back to the
// default category for unknown labels.
func CategoryFor(label string) CategoryInfo {
	if info, ok := CategoryTable[label]; ok {
		return info
	}
	return CategoryTable[DefaultCategory]
}
