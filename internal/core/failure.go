package core

import (
	"errors"
	"fmt"
)

// FailureKind classifies a gateway call outcome. The gateway never
// retries; the caller decides based on the classification.
type FailureKind int

const (
	// FailureNetwork means the request never reached the server.
	FailureNetwork FailureKind = iota
	// FailureClient is any 4xx with a machine-readable reason code.
	FailureClient
	// FailureServer is a 5xx.
	FailureServer
	// FailureNotFound is a 404 (unresolvable room slug, absent user).
	FailureNotFound
	// FailureAuth is a 401: missing or rejected bearer credential.
	FailureAuth
	// FailurePermission is a 403: the issuing identity lacks the role.
	FailurePermission
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureClient:
		return "client"
	case FailureServer:
		return "server"
	case FailureNotFound:
		return "not_found"
	case FailureAuth:
		return "auth"
	case FailurePermission:
		return "permission"
	}
	return "unknown"
}

// Failure is the classified error surfaced by the Room Data Gateway.
type Failure struct {
	Kind   FailureKind
	Op     string
	Status int
	// Reason is the backend's machine-readable code for 4xx responses,
	// e.g. "room_locked" or "invite_required_or_invalid".
	Reason string
	Err    error
}

func (f *Failure) Error() string {
	if f.Reason != "" {
		return fmt.Sprintf("%s: %s failure (%s)", f.Op, f.Kind, f.Reason)
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %s failure: %v", f.Op, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s failure (status %d)", f.Op, f.Kind, f.Status)
}

func (f *Failure) Unwrap() error { return f.Err }

// ErrAuthMissing is returned before any gateway call when no local
// identity exists; callers redirect to the login flow.
var ErrAuthMissing = errors.New("no local identity")

// ErrActionInFlight guards every mutating action against duplicate
// submission while its predecessor has not settled.
var ErrActionInFlight = errors.New("action already in flight")

func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == FailureNotFound
}

func IsAuth(err error) bool {
	k, ok := KindOf(err)
	return ok && k == FailureAuth
}

func IsPermission(err error) bool {
	k, ok := KindOf(err)
	return ok && k == FailurePermission
}

// ReasonOf extracts the backend reason code, if any.
func ReasonOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}
