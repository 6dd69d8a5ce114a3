package testutil

import (
	"testing"

	"github.com/iwvelando/greenseat-forecast/internal/profit"
)

func TestFindResult(t *testing.T) {
	results := []profit.Result{
		{Name: "Scenario A"},
		{Name: "Scenario B"},
		{Name: "Another Scenario"},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
	}{
		{"Find existing scenario A", "Scenario A", true},
		{"Find scenario with longer name", "Another Scenario", true},
		{"Search for non-existent scenario", "Non-existent", false},
		{"Case sensitive search", "scenario a", false},
		{"Empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindResult(results, tt.searchName)
			if tt.expectFound {
				if result == nil {
					t.Fatalf("FindResult(%q) returned nil", tt.searchName)
				}
				if result.Name != tt.searchName {
					t.Errorf("FindResult(%q) returned %q", tt.searchName, result.Name)
				}
				return
			}
			if result != nil {
				t.Errorf("FindResult(%q) = %+v, expected nil", tt.searchName, result)
			}
		})
	}
}

func TestFindResultReturnsSliceElement(t *testing.T) {
	results := []profit.Result{{Name: "only"}}

	found := FindResult(results, "only")
	found.Name = "renamed"
	if results[0].Name != "renamed" {
		t.Error("expected FindResult to point into the slice")
	}
	if FindResult(nil, "only") != nil {
		t.Error("expected nil for empty results")
	}
}
