package domain

// RoomState holds the room-wide ephemeral control flags. It is created
// implicitly with the room and replaced wholesale on every re-fetch.
type RoomState struct {
	RoomSlug    RoomSlug `json:"room_slug"`
	Topic       string   `json:"topic"`
	IsLocked    bool     `json:"is_locked"`
	MuteAll     bool     `json:"mute_all"`
	OnlineCount int      `json:"online_count"`
	RaisedHands []UserID `json:"raised_hands"`
}

// StateField names the room-state fields a moderator may mutate.
type StateField string

const (
	FieldLock    StateField = "lock"
	FieldMuteAll StateField = "mute_all"
	FieldTopic   StateField = "topic"
)

func (f StateField) Valid() bool {
	switch f {
	case FieldLock, FieldMuteAll, FieldTopic:
		return true
	}
	return false
}

// MediaToken is the opaque credential for the external media provider,
// bound to one (username, room) pair. Conceptually single-use: once a
// connection established with it is torn down, a fresh one is issued.
type MediaToken string
