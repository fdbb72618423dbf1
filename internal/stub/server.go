package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/domain"
)

type Server struct {
	store *Store
}

func NewServer() *Server {
	return &Server{store: NewStore()}
}

// Router builds the gin engine serving the backend contract under /api.
func Router(mode string) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	s := NewServer()
	api := r.Group("/api")

	api.POST("/users", s.createUser)
	api.POST("/auth/token/guest", s.guestToken)

	api.GET("/rooms/:slug", s.getRoom)
	api.GET("/participants/:slug", s.listParticipants)
	api.GET("/state/:slug", s.getState)
	api.GET("/chat/:slug", s.chatHistory)
	api.GET("/rtc/config", s.rtcConfig)

	authed := api.Group("", s.requireBearer)
	authed.POST("/rooms", s.createRoom)
	authed.POST("/participants/join", s.join)
	authed.POST("/participants/leave", s.leave)
	authed.POST("/participants/heartbeat", s.heartbeat)
	authed.POST("/state/:slug/:field", s.setState)
	authed.POST("/rtc/token", s.mediaToken)
	authed.POST("/chat/:slug", s.sendChat)
	authed.POST("/moderation/:slug/:action", s.moderate)

	log.Info().Str("module", "stub").Msg("contract stub router ready")
	return r
}

func fail(c *gin.Context, status int, code, detail string) {
	c.JSON(status, gin.H{"code": code, "detail": detail})
}

func (s *Server) requireBearer(c *gin.Context) {
	const prefix = "Bearer "
	h := c.GetHeader("Authorization")
	if len(h) <= len(prefix) || h[:len(prefix)] != prefix {
		fail(c, http.StatusUnauthorized, "missing_bearer", "Authorization required")
		c.Abort()
		return
	}
	user, ok := s.store.userForToken(h[len(prefix):])
	if !ok {
		fail(c, http.StatusUnauthorized, "invalid_bearer", "Unknown credential")
		c.Abort()
		return
	}
	c.Set("user_id", int64(user))
	c.Next()
}

type createUserIn struct {
	Nickname string `json:"nickname" binding:"required,max=36"`
}

func (s *Server) createUser(c *gin.Context) {
	var in createUserIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	u := s.store.createUser(in.Nickname)
	c.JSON(http.StatusCreated, gin.H{"id": u.ID, "nickname": u.Nickname})
}

type guestTokenIn struct {
	UserID domain.UserID `json:"user_id" binding:"required"`
}

func (s *Server) guestToken(c *gin.Context) {
	var in guestTokenIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	tok, ok := s.store.issueToken(in.UserID)
	if !ok {
		fail(c, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok, "token_type": "bearer", "expires_in": 3600})
}

type createRoomIn struct {
	Title        string        `json:"title" binding:"required,max=120"`
	IsPrivate    bool          `json:"is_private"`
	CreateInvite bool          `json:"create_invite"`
	CreatedBy    domain.UserID `json:"created_by" binding:"required"`
}

func (s *Server) createRoom(c *gin.Context) {
	var in createRoomIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	r := s.store.createRoom(in.Title, in.IsPrivate, in.CreateInvite, in.CreatedBy)
	c.JSON(http.StatusCreated, r.Room)
}

func (s *Server) getRoom(c *gin.Context) {
	r, ok := s.store.room(domain.RoomSlug(c.Param("slug")))
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	c.JSON(http.StatusOK, r.Room)
}

type joinIn struct {
	RoomSlug  domain.RoomSlug `json:"room_slug" binding:"required"`
	UserID    domain.UserID   `json:"user_id" binding:"required"`
	InviteKey string          `json:"invite_key"`
}

func (s *Server) join(c *gin.Context) {
	var in joinIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	m, reason := s.store.join(in.RoomSlug, in.UserID, in.InviteKey)
	switch reason {
	case "":
	case "room_not_found", "user_not_found":
		fail(c, http.StatusNotFound, reason, "Not found")
		return
	default:
		fail(c, http.StatusBadRequest, reason, "Join rejected")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"room_slug": in.RoomSlug,
		"user_id":   m.UserID,
		"role":      m.Role,
		"is_online": true,
	})
}

type leaveIn struct {
	RoomSlug domain.RoomSlug `json:"room_slug" binding:"required"`
	UserID   domain.UserID   `json:"user_id" binding:"required"`
}

func (s *Server) leave(c *gin.Context) {
	var in leaveIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	if !s.store.leave(in.RoomSlug, in.UserID) {
		fail(c, http.StatusNotFound, "membership_not_found", "Not found or already left")
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_slug": in.RoomSlug, "user_id": in.UserID})
}

func (s *Server) heartbeat(c *gin.Context) {
	var in leaveIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	m, ok := s.store.heartbeat(in.RoomSlug, in.UserID)
	if !ok {
		fail(c, http.StatusNotFound, "membership_not_found", "Active membership not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_slug": in.RoomSlug,
		"user_id":   m.UserID,
		"role":      m.Role,
		"is_online": true,
	})
}

func (s *Server) listParticipants(c *gin.Context) {
	items, ok := s.store.participants(domain.RoomSlug(c.Param("slug")))
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": items})
}

func (s *Server) getState(c *gin.Context) {
	st, ok := s.store.state(domain.RoomSlug(c.Param("slug")))
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	c.JSON(http.StatusOK, st)
}

type toggleIn struct {
	Value bool `json:"value"`
}

type topicIn struct {
	Topic string `json:"topic"`
}

func (s *Server) setState(c *gin.Context) {
	slug := domain.RoomSlug(c.Param("slug"))
	field := domain.StateField(c.Param("field"))
	if !field.Valid() {
		fail(c, http.StatusBadRequest, "unknown_field", "Unknown state field")
		return
	}

	var flag bool
	var topic string
	if field == domain.FieldTopic {
		var in topicIn
		if err := c.ShouldBindJSON(&in); err != nil {
			fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
			return
		}
		topic = in.Topic
	} else {
		var in toggleIn
		if err := c.ShouldBindJSON(&in); err != nil {
			fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
			return
		}
		flag = in.Value
	}

	actor := domain.UserID(c.GetInt64("user_id"))
	if role, ok := s.store.roleOf(slug, actor); !ok || !role.IsModerator() {
		fail(c, http.StatusForbidden, "moderator_role_required", "Admin or owner rights required")
		return
	}
	if !s.store.setState(slug, field, flag, topic) {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	st, _ := s.store.state(slug)
	c.JSON(http.StatusOK, st)
}

type mediaTokenIn struct {
	Username string `json:"username" binding:"required"`
	RoomName string `json:"room_name" binding:"required"`
}

func (s *Server) mediaToken(c *gin.Context) {
	var in mediaTokenIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	if _, ok := s.store.room(domain.RoomSlug(in.RoomName)); !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": "media-" + uuid.NewString()})
}

func (s *Server) rtcConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": []gin.H{{"urls": "stun:stun.l.google.com:19302"}}})
}

func (s *Server) chatHistory(c *gin.Context) {
	slug := domain.RoomSlug(c.Param("slug"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		fail(c, http.StatusBadRequest, "invalid_limit", "limit must be 1..200")
		return
	}
	msgs, ok := s.store.history(slug, limit)
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	items := make([]gin.H, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, gin.H{
			"id":         m.ID,
			"room_slug":  slug,
			"user_id":    m.UserID,
			"text":       m.Text,
			"created_at": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "has_more": false})
}

type sendChatIn struct {
	UserID domain.UserID `json:"user_id" binding:"required"`
	Text   string        `json:"text" binding:"required,max=500"`
}

func (s *Server) sendChat(c *gin.Context) {
	slug := domain.RoomSlug(c.Param("slug"))
	var in sendChatIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}
	m, ok := s.store.appendMessage(slug, in.UserID, in.Text)
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         m.ID,
		"room_slug":  slug,
		"user_id":    m.UserID,
		"text":       m.Text,
		"created_at": m.CreatedAt,
	})
}

type targetIn struct {
	UserID domain.UserID `json:"user_id" binding:"required"`
	Muted  bool          `json:"muted"`
}

func (s *Server) moderate(c *gin.Context) {
	slug := domain.RoomSlug(c.Param("slug"))
	actorID, err := strconv.ParseInt(c.Query("actor_user_id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid_actor", "actor_user_id required")
		return
	}
	actor := domain.UserID(actorID)

	room, ok := s.store.room(slug)
	if !ok {
		fail(c, http.StatusNotFound, "room_not_found", "Room not found")
		return
	}
	role, _ := s.store.roleOf(slug, actor)
	if role != domain.RoleOwner && room.CreatedBy != actor {
		fail(c, http.StatusForbidden, "owner_role_required", "Owner rights required")
		return
	}

	var in targetIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid_payload", err.Error())
		return
	}

	var done bool
	switch c.Param("action") {
	case "promote_admin":
		done = s.store.setRole(slug, in.UserID, domain.RoleAdmin)
	case "demote_admin":
		done = s.store.setRole(slug, in.UserID, domain.RoleParticipant)
	case "force_mute":
		done = s.store.forceMute(slug, in.UserID, in.Muted)
	case "kick":
		done = s.store.leave(slug, in.UserID)
	default:
		fail(c, http.StatusNotFound, "unknown_action", "Unknown moderation action")
		return
	}
	if !done {
		fail(c, http.StatusNotFound, "membership_not_found", "Active membership not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": in.UserID})
}
