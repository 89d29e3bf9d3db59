package prediction

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Chocolate Chip", "chocolate"},
		{"Double Fudge Brownie", "chocolate"},
		{"Strawberry Shortcake", "fruit"},
		{"Lemon Zest", "fruit"},
		{"Roasted Almond Crunch", "nut"},
		{"Pumpkin Spice", "seasonal"},
		{"Gingerbread Man", "seasonal"},
		{"Premium Dark Chocolate", "premium"},
		{"Artisan Vanilla", "premium"},
		{"Plain Sugar Cookie", DefaultCategory},
		{"", DefaultCategory},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if Classify("CHOCOLATE cHiP") != "chocolate" {
		t.Error("classification should ignore case")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Classify("Peppermint Mocha"); got != "seasonal" {
			t.Fatalf("iteration %d: Classify returned %q", i, got)
		}
	}
}

func TestCategoryForUnknownLabel(t *testing.T) {
	info := CategoryFor("no-such-category")
	if info != CategoryTable[DefaultCategory] {
		t.Errorf("unknown label should fall back to default category, got %+v", info)
	}
}

func TestCategoryTableComplete(t *testing.T) {
	for _, rule := range categoryRules {
		if _, ok := CategoryTable[rule.Category]; !ok {
			t.Errorf("rule category %q missing from CategoryTable", rule.Category)
		}
	}
	for label, info := range CategoryTable {
		if info.BasePrice <= 0 {
			t.Errorf("category %q has non-positive base price", label)
		}
		if info.Season == "" {
			t.Errorf("category %q has empty season", label)
		}
	}
}
