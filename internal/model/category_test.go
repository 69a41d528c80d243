package model

import "testing"

func TestDefaultCategoriesAreValid(t *testing.T) {
	if len(DefaultCategories) != 18 {
		t.Fatalf("stock set has %d categories", len(DefaultCategories))
	}
	seen := make(map[string]bool)
	for _, c := range DefaultCategories {
		if err := c.Validate(); err != nil {
			t.Errorf("%s: %v", c.Name, err)
		}
		if seen[c.Name] {
			t.Errorf("duplicate name %q", c.Name)
		}
		seen[c.Name] = true
	}
}

func TestCategoryValidateColor(t *testing.T) {
	c := Category{Name: "Pets", Type: TypeExpense, Color: "red", Icon: "paw"}
	if err := c.Validate(); err == nil {
		t.Error("non-hex color accepted")
	}
	c.Color = "#dc2626"
	if err := c.Validate(); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
}
