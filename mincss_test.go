package mincss

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NODE_PREFIX", "MINCSS_BACKEND", "MINCSS_INVALID_UTF8", "MINCSS_MAX_INPUT", "MINCSS_DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewFromEnv(t *testing.T) {
	clearEnv(t)

	m, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, m.Config)
	assert.NotNil(t, m.Config.Logger)

	var out bytes.Buffer
	require.NoError(t, m.Run(context.Background(), strings.NewReader("a { color: red; }"), &out))
	assert.Equal(t, "a{color:red}", out.String())

	got, err := m.MinifyString(context.Background(), "b {\n  margin: 0;\n}")
	require.NoError(t, err)
	assert.Equal(t, "b{margin:0}", got)
}

func TestNewInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINCSS_MAX_INPUT", "-1")

	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewKeepsConfig(t *testing.T) {
	nop := zerolog.Nop()
	c := &Config{Backend: "whitespace", Logger: &nop}

	m, err := New(c)
	require.NoError(t, err)
	assert.Same(t, c, m.Config)
	assert.Same(t, &nop, m.Config.Logger)

	var out bytes.Buffer
	require.NoError(t, m.Run(context.Background(), strings.NewReader("a {\n  color: red;\n}\n"), &out))
	assert.Equal(t, "a { color: red; }", out.String())
}
