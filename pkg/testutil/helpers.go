// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/greenseat-forecast/internal/profit"
)

// FindResult finds a scenario result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []profit.Result, name string) *profit.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
