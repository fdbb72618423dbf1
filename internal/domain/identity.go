// Package domain contains entities without behavior, just meta-data
// and the validation that keeps them well-formed.
package domain

import "errors"

const MaxNicknameLen = 36

var (
	ErrNicknameEmpty   = errors.New("nickname empty")
	ErrNicknameTooLong = errors.New("nickname too long")
)

type UserID int64

// Identity is the locally persisted authentication identity. At most
// one is active per client process.
type Identity struct {
	UserID      UserID `json:"user_id"`
	Nickname    string `json:"nickname"`
	Guest       bool   `json:"guest"`
	AccessToken string `json:"access_token"`
}

func ValidateNickname(nickname string) error {
	if len(nickname) == 0 {
		return ErrNicknameEmpty
	}
	if len(nickname) > MaxNicknameLen {
		return ErrNicknameTooLong
	}
	return nil
}
