package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/domain"
)

type memIdentityStore struct {
	saved *domain.Identity
}

func (m *memIdentityStore) Load() (*domain.Identity, error) { return m.saved, nil }
func (m *memIdentityStore) Save(id domain.Identity) error {
	m.saved = &id
	return nil
}
func (m *memIdentityStore) Clear() error {
	m.saved = nil
	return nil
}

type fakeAuthGateway struct {
	nextID domain.UserID
}

func (f *fakeAuthGateway) CreateGuest(ctx context.Context, nickname string) (domain.UserID, error) {
	if err := domain.ValidateNickname(nickname); err != nil {
		return 0, err
	}
	f.nextID++
	return f.nextID, nil
}

func (f *fakeAuthGateway) GuestToken(ctx context.Context, user domain.UserID) (string, error) {
	return "tok-for-user", nil
}

func TestIdentityLoginPersistsAndNotifies(t *testing.T) {
	st := &memIdentityStore{}
	svc, err := app.NewIdentityService(st, &fakeAuthGateway{})
	require.NoError(t, err)

	_, ok := svc.Current()
	assert.False(t, ok)
	assert.Empty(t, svc.Token())

	var seen []*domain.Identity
	unsub := svc.Subscribe(func(id *domain.Identity) { seen = append(seen, id) })
	defer unsub()

	id, err := svc.Login(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, id.Guest)
	assert.Equal(t, "alice", id.Nickname)
	assert.Equal(t, "tok-for-user", svc.Token())

	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, id, cur)
	require.NotNil(t, st.saved)
	assert.Equal(t, id, *st.saved)

	require.NoError(t, svc.Logout())
	_, ok = svc.Current()
	assert.False(t, ok)
	assert.Nil(t, st.saved)

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])
}

func TestIdentityRestoredFromStore(t *testing.T) {
	st := &memIdentityStore{saved: &domain.Identity{UserID: 9, Nickname: "bob", Guest: true, AccessToken: "t"}}
	svc, err := app.NewIdentityService(st, &fakeAuthGateway{})
	require.NoError(t, err)

	cur, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, domain.UserID(9), cur.UserID)
	assert.Equal(t, "t", svc.Token())
}

func TestIdentityLoginRejectsBadNickname(t *testing.T) {
	svc, err := app.NewIdentityService(&memIdentityStore{}, &fakeAuthGateway{})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNicknameEmpty)
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestIdentityUnsubscribeStopsNotifications(t *testing.T) {
	svc, err := app.NewIdentityService(&memIdentityStore{}, &fakeAuthGateway{})
	require.NoError(t, err)

	calls := 0
	unsub := svc.Subscribe(func(*domain.Identity) { calls++ })
	_, err = svc.Login(context.Background(), "alice")
	require.NoError(t, err)
	unsub()
	require.NoError(t, svc.Logout())

	assert.Equal(t, 1, calls)
}
