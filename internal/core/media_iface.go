package core

import (
	"context"

	"github.com/dkeye/Huddle/internal/domain"
)

// MediaSession is one live connection to the external media provider.
// Owned by the orchestrator; the orchestrator must Close() it.
type MediaSession interface {
	// Close tears the session down. Idempotent.
	Close()
	IsClosed() bool
	// OnClosed sets a callback fired once when the provider reports
	// disconnect, whether user-initiated or network-induced. Registering
	// on an already-closed session fires the callback immediately.
	OnClosed(func())
}

// MediaDialer hands the opaque token to the provider and confirms the
// connection. The provider's wire protocol is not modeled here.
type MediaDialer interface {
	Dial(ctx context.Context, token domain.MediaToken) (MediaSession, error)
}
