package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key("hello world"), Key("hello world"))
	assert.Len(t, Key("hello world"), 16)
	assert.Len(t, Key(""), 16)
}

func TestKey_Sensitive(t *testing.T) {
	base := Key("hello world")
	assert.NotEqual(t, base, Key("hello world "))
	assert.NotEqual(t, base, Key("Hello world"))
	assert.NotEqual(t, base, Key("hello  world"))
}

func TestKey_Hex(t *testing.T) {
	for _, r := range Key("grimoire") {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}
