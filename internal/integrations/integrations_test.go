package integrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Both bridges must degrade to "no signal" when the tool is missing.

func TestMaxCyclomaticComplexity_ToolMissing(t *testing.T) {
	t.Setenv("PATH", "")
	cc, ok := MaxCyclomaticComplexity(context.Background(), []byte("def f():\n    pass\n"))
	assert.False(t, ok)
	assert.Zero(t, cc)
}

func TestStructuralWarnings_ToolMissing(t *testing.T) {
	t.Setenv("PATH", "")
	count, ok := StructuralWarnings(context.Background(), "whatever.py")
	assert.False(t, ok)
	assert.Zero(t, count)
}
