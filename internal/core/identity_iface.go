package core

import "github.com/dkeye/Huddle/internal/domain"

// IdentityStore persists at most one identity between runs.
// Load returns (nil, nil) when nothing is stored.
type IdentityStore interface {
	Load() (*domain.Identity, error)
	Save(domain.Identity) error
	Clear() error
}

// IdentityProvider is the read side consumed by the orchestrator; the
// identity is mutated only by the authentication flow.
type IdentityProvider interface {
	Current() (domain.Identity, bool)
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
}
