package spdlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalLogger_DefaultIsUsable(t *testing.T) {
	l := GlobalLogger()
	assert.NotNil(t, l)
}

func TestGlobalLogger_SetAndGet(t *testing.T) {
	orig := GlobalLogger()
	defer SetGlobalLogger(orig)

	replacement := New("replacement", nil)
	SetGlobalLogger(replacement)
	assert.Same(t, replacement, GlobalLogger())
}
