package domain

import (
	"errors"
	"regexp"
)

const MaxSlugLen = 64

var (
	ErrSlugEmpty   = errors.New("room slug empty")
	ErrSlugInvalid = errors.New("room slug invalid")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type RoomSlug string

// Room is immutable client-side except by re-fetch. InviteKey is only
// present on private rooms.
type Room struct {
	Slug      RoomSlug `json:"slug"`
	Title     string   `json:"title"`
	IsPrivate bool     `json:"is_private"`
	InviteKey string   `json:"invite_key,omitempty"`
	InviteURL string   `json:"invite_url,omitempty"`
}

func ParseSlug(raw string) (RoomSlug, error) {
	if raw == "" {
		return "", ErrSlugEmpty
	}
	if len(raw) > MaxSlugLen || !slugRe.MatchString(raw) {
		return "", ErrSlugInvalid
	}
	return RoomSlug(raw), nil
}
