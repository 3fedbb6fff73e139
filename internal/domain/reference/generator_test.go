package reference

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Next(t *testing.T) {
	gen := NewGenerator("CLM")
	gen.now = func() time.Time {
		return time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	}

	for i := 0; i < 100; i++ {
		ref := gen.Next()
		assert.True(t, Valid(ref), "generated reference %q must match the format", ref)
		assert.True(t, strings.HasPrefix(ref, "CLM-2026-"))
	}
}

func TestGenerator_DefaultPrefix(t *testing.T) {
	gen := NewGenerator("")
	assert.True(t, strings.HasPrefix(gen.Next(), DefaultPrefix+"-"))
}

func TestValid(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"CLM-2026-00001", true},
		{"CLM-2026-99999", true},
		{"EXP-2025-12345", true},
		{"CLM-2026-1234", false},
		{"CLM-2026-123456", false},
		{"CLM-26-12345", false},
		{"clm-2026-12345", false},
		{"CLM202612345", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.ref), "ref %q", tt.ref)
	}
}
