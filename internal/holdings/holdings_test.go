package holdings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSource_ReturnsFixedBook(t *testing.T) {
	src := NewMockSource(450)
	positions, err := src.Holdings(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Len(t, positions, 5)
	for _, p := range positions {
		assert.Equal(t, "SPY", p.Symbol.Underlying)
	}
}

func TestFileSource_FiltersByUnderlying(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holdings.json")
	body := `[
		{"underlying":"SPY","security":"option","right":"call","strike":"450","expiration":"2026-09-18T00:00:00Z","quantity":1},
		{"underlying":"QQQ","security":"option","right":"call","strike":"350","expiration":"2026-09-18T00:00:00Z","quantity":1},
		{"underlying":"SPY","security":"equity","quantity":100}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	src := NewFileSource(path)
	positions, err := src.Holdings(context.Background(), "SPY")
	require.NoError(t, err)
	assert.Len(t, positions, 2)
}

func TestFileSource_RejectsUnknownRight(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holdings.json")
	body := `[{"underlying":"SPY","security":"option","right":"bogus","strike":"450","expiration":"2026-09-18T00:00:00Z","quantity":1}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	src := NewFileSource(path)
	_, err := src.Holdings(context.Background(), "SPY")
	assert.Error(t, err)
}
