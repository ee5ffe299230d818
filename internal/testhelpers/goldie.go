package testhelpers

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TextGoldie creates a goldie instance for plain-text golden files.
func TextGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}

// DotGoldie creates a goldie instance for Graphviz golden files.
func DotGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.dot"))
}
