package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxMessageLen = 500

var (
	ErrMessageBlank   = errors.New("message blank")
	ErrMessageTooLong = errors.New("message too long")
)

type MessageID int64

// ChatMessage is never edited or deleted client-side; ID is the
// de-duplication key across refreshes.
type ChatMessage struct {
	ID        MessageID `json:"id"`
	RoomSlug  RoomSlug  `json:"room_slug"`
	UserID    UserID    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidateMessageText rejects blank and over-long text before any
// network call is made.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrMessageBlank
	}
	if utf8.RuneCountInString(text) > MaxMessageLen {
		return ErrMessageTooLong
	}
	return nil
}
