package util

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled_False(t *testing.T) {
	res := DebugEnabled()
	assert.False(t, res, "debug should be false")
}

func TestDebugEnabled_True(t *testing.T) {
	t.Setenv("EFRIS_DEBUG", "true")

	res := DebugEnabled()
	assert.True(t, res, "debug should be true")
}

func TestHttpTraceEnabled_NotBool(t *testing.T) {
	t.Setenv("EFRIS_HTTP_TRACE", "maybe")

	res := HttpTraceEnabled()
	assert.False(t, res, "non-boolean value should read as false")
}

func TestGetEnvOrFailed(t *testing.T) {
	err := os.Setenv("EFRIS_TEST_ENV", "value")
	if err != nil {
		t.Errorf("can't set env variable")
	}
	assert.Equal(t, "value", GetEnvOrFailed("EFRIS_TEST_ENV"))
}
