package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryList(t *testing.T) {
	q := map[string][]string{
		"comma":    {"Water, Food"},
		"repeated": {"Water", "Food"},
		"single":   {"Medical"},
	}

	assert.Equal(t, []string{"Water", "Food"}, ParseQueryList(q, "comma"))
	assert.Equal(t, []string{"Water", "Food"}, ParseQueryList(q, "repeated"))
	assert.Equal(t, []string{"Medical"}, ParseQueryList(q, "single"))
	assert.Nil(t, ParseQueryList(q, "absent"))
}
