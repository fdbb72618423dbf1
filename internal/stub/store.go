// Package stub is an in-memory realization of the backend contract,
// used by cmd/stubd for local development and by tests.
package stub

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/Huddle/internal/domain"
)

const onlineTTL = 45 * time.Second

type stubUser struct {
	ID       domain.UserID
	Nickname string
}

type stubRoom struct {
	Room      domain.Room
	CreatedBy domain.UserID
	Topic     string
	IsLocked  bool
	MuteAll   bool
}

type membership struct {
	UserID     domain.UserID
	Role       domain.Role
	LastSeen   time.Time
	Left       bool
	HandRaised bool
	MicMuted   bool
}

type message struct {
	ID        domain.MessageID
	UserID    domain.UserID
	Text      string
	CreatedAt time.Time
}

type Store struct {
	mu         sync.RWMutex
	nextUserID domain.UserID
	nextMsgID  domain.MessageID
	users      map[domain.UserID]*stubUser
	tokens     map[string]domain.UserID
	rooms      map[domain.RoomSlug]*stubRoom
	members    map[domain.RoomSlug]map[domain.UserID]*membership
	messages   map[domain.RoomSlug][]message
}

func NewStore() *Store {
	return &Store{
		nextUserID: 1,
		nextMsgID:  1,
		users:      make(map[domain.UserID]*stubUser),
		tokens:     make(map[string]domain.UserID),
		rooms:      make(map[domain.RoomSlug]*stubRoom),
		members:    make(map[domain.RoomSlug]map[domain.UserID]*membership),
		messages:   make(map[domain.RoomSlug][]message),
	}
}

func (s *Store) createUser(nickname string) *stubUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &stubUser{ID: s.nextUserID, Nickname: nickname}
	s.nextUserID++
	s.users[u.ID] = u
	return u
}

func (s *Store) issueToken(user domain.UserID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user]; !ok {
		return "", false
	}
	tok := "guest-" + uuid.NewString()
	s.tokens[tok] = user
	return tok, true
}

func (s *Store) userForToken(token string) (domain.UserID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	return id, ok
}

func slugify(title string) domain.RoomSlug {
	out := strings.Builder{}
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				out.WriteByte('-')
				lastDash = true
			}
		}
	}
	return domain.RoomSlug(strings.Trim(out.String(), "-"))
}

func (s *Store) createRoom(title string, isPrivate, createInvite bool, createdBy domain.UserID) *stubRoom {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug := slugify(title)
	if _, taken := s.rooms[slug]; taken || slug == "" {
		slug = domain.RoomSlug(fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8]))
	}
	r := &stubRoom{
		Room: domain.Room{
			Slug:      slug,
			Title:     title,
			IsPrivate: isPrivate,
		},
		CreatedBy: createdBy,
	}
	if isPrivate && createInvite {
		r.Room.InviteKey = uuid.NewString()[:8]
		r.Room.InviteURL = fmt.Sprintf("/invite/%s?key=%s", slug, r.Room.InviteKey)
	}
	s.rooms[slug] = r
	s.members[slug] = make(map[domain.UserID]*membership)
	return r
}

func (s *Store) room(slug domain.RoomSlug) (*stubRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[slug]
	return r, ok
}

// join mirrors the backend rules: the creator bypasses lock and invite
// checks, an existing active membership is refreshed instead of
// duplicated, the creator becomes owner.
func (s *Store) join(slug domain.RoomSlug, user domain.UserID, inviteKey string) (*membership, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[slug]
	if !ok {
		return nil, "room_not_found"
	}
	if _, ok := s.users[user]; !ok {
		return nil, "user_not_found"
	}

	isCreator := room.CreatedBy == user
	if !isCreator {
		if room.IsLocked {
			return nil, "room_locked"
		}
		if room.Room.IsPrivate && (inviteKey == "" || inviteKey != room.Room.InviteKey) {
			return nil, "invite_required_or_invalid"
		}
	}

	if m, ok := s.members[slug][user]; ok && !m.Left {
		m.LastSeen = time.Now()
		return m, ""
	}

	role := domain.RoleParticipant
	if isCreator {
		role = domain.RoleOwner
	}
	m := &membership{UserID: user, Role: role, LastSeen: time.Now()}
	s.members[slug][user] = m
	return m, ""
}

func (s *Store) leave(slug domain.RoomSlug, user domain.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[slug][user]
	if !ok || m.Left {
		return false
	}
	m.Left = true
	return true
}

func (s *Store) heartbeat(slug domain.RoomSlug, user domain.UserID) (*membership, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[slug][user]
	if !ok || m.Left {
		return nil, false
	}
	m.LastSeen = time.Now()
	return m, true
}

func (s *Store) participants(slug domain.RoomSlug) ([]domain.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.rooms[slug]; !ok {
		return nil, false
	}
	out := make([]domain.Participant, 0, len(s.members[slug]))
	for _, m := range s.members[slug] {
		if m.Left {
			continue
		}
		nickname := ""
		if u, ok := s.users[m.UserID]; ok {
			nickname = u.Nickname
		}
		out = append(out, domain.Participant{
			UserID:     m.UserID,
			Nickname:   nickname,
			Role:       m.Role,
			IsOnline:   time.Since(m.LastSeen) <= onlineTTL,
			MicMuted:   m.MicMuted,
			HandRaised: m.HandRaised,
		})
	}
	return out, true
}

func (s *Store) state(slug domain.RoomSlug) (domain.RoomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[slug]
	if !ok {
		return domain.RoomState{}, false
	}
	st := domain.RoomState{
		RoomSlug:    slug,
		Topic:       room.Topic,
		IsLocked:    room.IsLocked,
		MuteAll:     room.MuteAll,
		RaisedHands: []domain.UserID{},
	}
	for _, m := range s.members[slug] {
		if m.Left {
			continue
		}
		if time.Since(m.LastSeen) <= onlineTTL {
			st.OnlineCount++
		}
		if m.HandRaised {
			st.RaisedHands = append(st.RaisedHands, m.UserID)
		}
	}
	return st, true
}

func (s *Store) setState(slug domain.RoomSlug, field domain.StateField, flag bool, topic string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[slug]
	if !ok {
		return false
	}
	switch field {
	case domain.FieldLock:
		room.IsLocked = flag
	case domain.FieldMuteAll:
		room.MuteAll = flag
	case domain.FieldTopic:
		room.Topic = strings.TrimSpace(topic)
	}
	return true
}

func (s *Store) roleOf(slug domain.RoomSlug, user domain.UserID) (domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[slug][user]
	if !ok || m.Left {
		return "", false
	}
	return m.Role, true
}

func (s *Store) setRole(slug domain.RoomSlug, user domain.UserID, role domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[slug][user]
	if !ok || m.Left {
		return false
	}
	m.Role = role
	return true
}

func (s *Store) forceMute(slug domain.RoomSlug, user domain.UserID, muted bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[slug][user]
	if !ok || m.Left {
		return false
	}
	m.MicMuted = muted
	return true
}

func (s *Store) history(slug domain.RoomSlug, limit int) ([]message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.rooms[slug]; !ok {
		return nil, false
	}
	msgs := s.messages[slug]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]message(nil), msgs...), true
}

func (s *Store) appendMessage(slug domain.RoomSlug, user domain.UserID, text string) (message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[slug]; !ok {
		return message{}, false
	}
	m := message{ID: s.nextMsgID, UserID: user, Text: text, CreatedAt: time.Now()}
	s.nextMsgID++
	s.messages[slug] = append(s.messages[slug], m)
	return m, true
}
