package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		expected []string
	}{
		{"", nil},
		{"admin", []string{"admin"}},
		{" admin , editor ,", []string{"admin", "editor"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, splitRoles(tt.raw), tt.raw)
	}
}
