package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenAndMerge(t *testing.T) {
	tree := map[string]any{
		"logger": map[string]any{
			"levels": map[string]any{"a.B": "DEBUG", "keep": "INFO"},
		},
	}
	deepMerge(tree, map[string]any{
		"logger": map[string]any{
			"levels": map[any]any{"a.B": "WARN", 1: "ERROR"},
		},
		"empty": map[string]any{},
	})

	flat := flatten(tree)
	assert.Equal(t, map[string]any{
		"logger.levels.a.B":  "WARN",
		"logger.levels.keep": "INFO",
		"logger.levels.1":    "ERROR",
		"empty":              map[string]any{},
	}, flat)

	assert.Equal(t, map[string]any{"a.B": "WARN", "keep": "INFO", "1": "ERROR"}, underPrefix(flat, "LOGGER.levels"))
	assert.Len(t, underPrefix(flat, ""), 4)
}
