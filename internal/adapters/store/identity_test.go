package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/adapters/store"
	"github.com/dkeye/Huddle/internal/domain"
)

func openStore(t *testing.T) *store.IdentityStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "nested", "identity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIdentityRoundTrip(t *testing.T) {
	s := openStore(t)

	id, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, id, "empty store loads as no identity")

	want := domain.Identity{UserID: 42, Nickname: "alice", Guest: true, AccessToken: "guest-abc"}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestIdentitySaveOverwrites(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save(domain.Identity{UserID: 1, Nickname: "old"}))
	require.NoError(t, s.Save(domain.Identity{UserID: 2, Nickname: "new"}))

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.UserID(2), got.UserID)
}

func TestIdentityClear(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.Save(domain.Identity{UserID: 1}))
	require.NoError(t, s.Clear())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	// Clearing an already empty store is fine.
	require.NoError(t, s.Clear())
}
