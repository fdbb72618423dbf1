package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/domain"
)

func sampleRoster() []domain.Participant {
	return []domain.Participant{
		{UserID: 1, Nickname: "owner", Role: domain.RoleOwner},
		{UserID: 2, Nickname: "mod", Role: domain.RoleAdmin},
		{UserID: 3, Nickname: "guest", Role: domain.RoleParticipant},
	}
}

func TestRosterPredicates(t *testing.T) {
	roster := sampleRoster()

	assert.True(t, app.IsParticipant(roster, 3))
	assert.False(t, app.IsParticipant(roster, 99))

	assert.True(t, app.IsModerator(roster, 1))
	assert.True(t, app.IsModerator(roster, 2))
	assert.False(t, app.IsModerator(roster, 3))
	// Absence of a matching entry means false, not an error.
	assert.False(t, app.IsModerator(roster, 99))
	assert.False(t, app.IsModerator(nil, 1))
}

func TestRosterReplaceWholesale(t *testing.T) {
	r := app.NewRoster()
	assert.Zero(t, r.Count())

	r.Replace(sampleRoster())
	assert.Equal(t, 3, r.Count())

	// A snapshot is insulated from later replacements.
	snap := r.Snapshot()
	r.Replace([]domain.Participant{{UserID: 7, Role: domain.RoleParticipant}})
	assert.Len(t, snap, 3)
	assert.Equal(t, 1, r.Count())

	r.Clear()
	assert.Zero(t, r.Count())
	assert.Empty(t, r.Snapshot())
}

func TestRosterFind(t *testing.T) {
	p, ok := app.Find(sampleRoster(), 2)
	assert.True(t, ok)
	assert.Equal(t, "mod", p.Nickname)

	_, ok = app.Find(sampleRoster(), 42)
	assert.False(t, ok)
}
