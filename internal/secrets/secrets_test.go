// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsKeyFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai-api-key"), []byte("sk-test\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ncbi-email"), []byte("  user@example.org  "), 0o600))

	got, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", got["openai-api-key"])
	assert.Equal(t, "user@example.org", got["ncbi-email"])
}

func TestLoadMissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadSkipsHiddenAndEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("   \n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, got)
}
