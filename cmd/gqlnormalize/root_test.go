package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/gqlnormalize/config"
	"github.com/Protocol-Lattice/gqlnormalize/registry"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Stdin(t *testing.T) {
	out, err := execute(t, "query Q($b: Int, $a: Int) { y x }")
	require.NoError(t, err)
	assert.Equal(t, "query Q($a: Int, $b: Int) {\n  x\n  y\n}\n", out)

	out, err = execute(t, "{ y x }", "-")
	require.NoError(t, err)
	assert.Equal(t, "{\n  x\n  y\n}\n", out)
}

func TestRootCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.graphql")
	require.NoError(t, os.WriteFile(path, []byte("{ f(b: 1, a: 2) }"), 0o600))

	out, err := execute(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  f(a: 2, b: 1)\n}\n", out)

	_, err = execute(t, "", filepath.Join(t.TempDir(), "missing.graphql"))
	assert.Error(t, err)
}

func TestRootCmd_Minify(t *testing.T) {
	out, err := execute(t, "query Q { b a ...F }", "--minify")
	require.NoError(t, err)
	assert.Equal(t, "query Q{a b ...F}\n", out)

	out, err = execute(t, "{ b a }", "-m")
	require.NoError(t, err)
	assert.Equal(t, "{a b}\n", out)
}

func TestRootCmd_Hash(t *testing.T) {
	first, err := execute(t, "{ b a }", "--hash")
	require.NoError(t, err)
	second, err := execute(t, "{ a, b }", "--hash")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, registry.ID("{\n  a\n  b\n}\n")+"\n", first)
}

func TestRootCmd_FieldArgumentValues(t *testing.T) {
	out, err := execute(t, "{ f(v: [2, 1]) }")
	require.NoError(t, err)
	assert.Equal(t, "{\n  f(v: [2, 1])\n}\n", out)

	out, err = execute(t, "{ f(v: [2, 1]) }", "--field-argument-values")
	require.NoError(t, err)
	assert.Equal(t, "{\n  f(v: [1, 2])\n}\n", out)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gqlnormalize.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minify: true\n"), 0o600))

	out, err := execute(t, "{ b a }", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "{a b}\n", out)
}

func TestRootCmd_Errors(t *testing.T) {
	_, err := execute(t, "{ a ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error at 1:5")

	_, err = execute(t, "{ a }", "one", "two")
	assert.Error(t, err)
}

func TestServe_Shutdown(t *testing.T) {
	cfg := &config.Config{Listen: "127.0.0.1:0", CacheSize: 8, LogLevel: "info"}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.NoError(t, serve(ctx, cfg, zap.NewNop()))
}

func TestServe_InvalidCacheSize(t *testing.T) {
	cfg := &config.Config{Listen: "127.0.0.1:0", CacheSize: 0}
	assert.Error(t, serve(context.Background(), cfg, zap.NewNop()))
}
