package domain

type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
)

// IsModerator reports whether the role may mutate room-wide state.
func (r Role) IsModerator() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Participant is one roster entry. Membership of the current user is
// always derived from the roster, never cached on the identity.
type Participant struct {
	UserID     UserID `json:"user_id"`
	Nickname   string `json:"nickname"`
	Role       Role   `json:"role"`
	IsOnline   bool   `json:"is_online"`
	IsSpeaking bool   `json:"is_speaking"`
	MicMuted   bool   `json:"mic_muted"`
	CamOff     bool   `json:"cam_off"`
	HandRaised bool   `json:"hand_raised"`
}
