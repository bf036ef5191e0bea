package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	_, err := s.Get("corsproxy")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("corsproxy", "abc123"))
	require.NoError(t, s.Set("scraper", "zzz"))

	v, err := s.Get("corsproxy")
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)

	info, err := os.Stat(filepath.Join(dir, "corsproxy.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	refs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"corsproxy", "scraper"}, refs)

	require.NoError(t, s.Delete("corsproxy"))
	require.NoError(t, s.Delete("corsproxy"))
	_, err = s.Get("corsproxy")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RejectsBadRefs(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, ref := range []string{"", "../etc", `a\b`, ".hidden", manifestKey} {
		t.Run(ref, func(t *testing.T) {
			assert.Error(t, s.Set(ref, "x"))
			_, err := s.Get(ref)
			assert.Error(t, err)
		})
	}
	assert.Error(t, s.Set("ok", ""))
}

func TestKeyringStore_Manifest(t *testing.T) {
	keyring.MockInit()
	t.Setenv("CI", "")
	t.Setenv("CODESPACES", "")

	s := NewStore(t.TempDir())
	require.NoError(t, s.Set("b", "2"))
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("a", "1b"))

	v, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1b", v)

	refs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, refs)

	require.NoError(t, s.Delete("b"))
	refs, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, refs)

	_, err = s.Get("b")
	assert.ErrorIs(t, err, ErrNotFound)
}
