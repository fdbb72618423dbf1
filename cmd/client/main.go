package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/adapters/api"
	"github.com/dkeye/Huddle/internal/adapters/media"
	"github.com/dkeye/Huddle/internal/adapters/store"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	idStore, err := store.Open(cfg.IdentityPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open identity store")
		os.Exit(1)
	}
	defer idStore.Close()

	var ids *app.IdentityService
	gw := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, func() string {
		if ids == nil {
			return ""
		}
		return ids.Token()
	})
	ids, err = app.NewIdentityService(idStore, gw)
	if err != nil {
		log.Error().Err(err).Msg("failed to restore identity")
		os.Exit(1)
	}

	c := &cli{
		cfg:    cfg,
		gw:     gw,
		ids:    ids,
		dialer: media.NewDialer(cfg.MediaURL),
	}
	c.run(ctx)
}

// cli is the stand-in for the external UI collaborator: it renders
// snapshots and routes user commands into the orchestrator.
type cli struct {
	cfg    *config.Config
	gw     *api.Client
	ids    *app.IdentityService
	dialer core.MediaDialer

	visit *orch.Orchestrator
}

func (c *cli) run(ctx context.Context) {
	fmt.Println("huddle client — type 'help'")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		select {
		case <-ctx.Done():
			c.closeVisit()
			return
		default:
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "quit", "exit":
			c.closeVisit()
			return
		case "help":
			c.help()
		case "login":
			c.login(ctx, rest)
		case "logout":
			c.closeVisit()
			if err := c.ids.Logout(); err != nil {
				fmt.Println("logout failed:", err)
			}
		case "whoami":
			if id, ok := c.ids.Current(); ok {
				fmt.Printf("#%d %s (guest=%v)\n", id.UserID, id.Nickname, id.Guest)
			} else {
				fmt.Println("not logged in")
			}
		case "create":
			c.create(ctx, rest)
		case "open":
			c.open(ctx, rest)
		case "close":
			c.closeVisit()
		default:
			c.visitCommand(ctx, cmd, rest)
		}
	}
}

func (c *cli) help() {
	fmt.Println(`login <nick> | logout | whoami
create <title> [private] | open <slug> | close
join [invite-key] | leave | refresh | roster | state
lock on|off | mute on|off | topic <text>
promote <id> | demote <id> | kick <id>
connect | disconnect | say <text> | chat
quit`)
}

func (c *cli) login(ctx context.Context, nick string) {
	if _, err := c.ids.Login(ctx, nick); err != nil {
		fmt.Println("login failed:", err)
		return
	}
	fmt.Println("logged in as", nick)
}

func (c *cli) create(ctx context.Context, rest string) {
	id, ok := c.ids.Current()
	if !ok {
		fmt.Println("login first")
		return
	}
	private := false
	if title, found := strings.CutSuffix(rest, " private"); found {
		rest = title
		private = true
	}
	room, err := c.gw.CreateRoom(ctx, core.CreateRoomRequest{
		Title:        rest,
		IsPrivate:    private,
		CreateInvite: private,
		CreatedBy:    id.UserID,
	})
	if err != nil {
		fmt.Println("create failed:", err)
		return
	}
	fmt.Printf("room %q created, slug %s", room.Title, room.Slug)
	if room.InviteKey != "" {
		fmt.Printf(", invite key %s", room.InviteKey)
	}
	fmt.Println()
}

func (c *cli) open(ctx context.Context, raw string) {
	slug, err := domain.ParseSlug(raw)
	if err != nil {
		fmt.Println("bad slug:", err)
		return
	}
	c.closeVisit()

	v := orch.New(c.gw, c.ids, c.dialer, slug, orch.Options{
		HeartbeatPeriod: c.cfg.HeartbeatPeriod,
		ChatPageSize:    c.cfg.ChatPageSize,
	})
	switch err := v.Start(ctx); {
	case err == core.ErrAuthMissing:
		// The routing collaborator's redirect-to-login.
		fmt.Println("login required")
		return
	case err != nil:
		if core.IsNotFound(err) {
			fmt.Println("room not found:", slug)
		} else {
			fmt.Println("room load failed:", err)
		}
		return
	}
	c.visit = v
	c.render()
}

func (c *cli) closeVisit() {
	if c.visit != nil {
		c.visit.Close()
		c.visit = nil
	}
}

func (c *cli) visitCommand(ctx context.Context, cmd, rest string) {
	if c.visit == nil {
		fmt.Println("no open room (use: open <slug>)")
		return
	}
	v := c.visit
	var err error

	switch cmd {
	case "join":
		err = v.Join(ctx, rest)
	case "leave":
		err = v.Leave(ctx)
	case "refresh":
		v.Refresh(ctx)
	case "lock":
		err = v.SetLocked(ctx, rest == "on")
	case "mute":
		err = v.SetMuteAll(ctx, rest == "on")
	case "topic":
		err = v.SetTopic(ctx, rest)
	case "promote", "demote", "kick":
		var target int64
		if target, err = strconv.ParseInt(rest, 10, 64); err != nil {
			fmt.Println("usage:", cmd, "<user-id>")
			return
		}
		switch cmd {
		case "promote":
			err = v.Promote(ctx, domain.UserID(target))
		case "demote":
			err = v.Demote(ctx, domain.UserID(target))
		case "kick":
			err = v.Kick(ctx, domain.UserID(target))
		}
	case "connect":
		err = v.ConnectMedia(ctx)
	case "disconnect":
		v.DisconnectMedia()
	case "say":
		id, _ := c.ids.Current()
		err = v.Chat().Send(ctx, id.UserID, rest)
	case "chat":
		for _, m := range v.Chat().Messages() {
			fmt.Printf("[%s] #%d: %s\n", m.CreatedAt.Format("15:04:05"), m.UserID, m.Text)
		}
		return
	case "roster", "state":
		// rendered below
	default:
		fmt.Println("unknown command:", cmd)
		return
	}

	if err != nil {
		fmt.Println("error:", err)
	}
	c.render()
}

func (c *cli) render() {
	s := c.visit.Snapshot()
	fmt.Printf("room %s (%s) [%s, media %s]\n", s.Room.Slug, s.Room.Title, s.State, s.MediaState)
	if s.StateLoaded {
		fmt.Printf("  topic=%q locked=%v mute_all=%v online=%d\n",
			s.RoomState.Topic, s.RoomState.IsLocked, s.RoomState.MuteAll, s.RoomState.OnlineCount)
	} else {
		fmt.Println("  state unavailable")
	}
	for _, p := range s.Roster {
		mark := " "
		if p.UserID == s.Identity.UserID {
			mark = "*"
		}
		fmt.Printf("  %s #%d %s (%s) online=%v\n", mark, p.UserID, p.Nickname, p.Role, p.IsOnline)
	}
	if s.Notice != "" {
		fmt.Println("  notice:", s.Notice)
	}
}
