package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/mafia/internal/chat"
	"github.com/kiliankoe/mafia/internal/game"
)

type ConnCtx struct {
	ChannelID string
	PlayerID  string
	Name      string
}

// Gateway bridges Socket.IO connections and the game manager. It is the
// chat.Transport implementation: channel messages fan out to every socket in
// the channel, direct messages only to the sockets of one player. Session
// goroutines send concurrently with connect/disconnect, hence the mutex
// around the member maps.
type Gateway struct {
	mgr *game.Manager

	mu        sync.RWMutex
	byChannel map[string]map[string]socketio.Conn // channelID -> socketID -> Conn
	byPlayer  map[string]map[string]socketio.Conn // playerID -> socketID -> Conn
}

func New() *Gateway {
	return &Gateway{
		byChannel: make(map[string]map[string]socketio.Conn),
		byPlayer:  make(map[string]map[string]socketio.Conn),
	}
}

// SetManager wires the manager after construction; the manager needs the
// gateway as its transport first.
func (gw *Gateway) SetManager(m *game.Manager) { gw.mgr = m }

func (gw *Gateway) SendChannelMessage(channelID, text string, choices []chat.Choice) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	for _, c := range gw.byChannel[channelID] {
		c.Emit("chat:message", messagePayload(channelID, text, choices))
	}
}

func (gw *Gateway) SendDirectMessage(playerID, text string, choices []chat.Choice) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	for _, c := range gw.byPlayer[playerID] {
		c.Emit("chat:dm", messagePayload("", text, choices))
	}
}

func messagePayload(channelID, text string, choices []chat.Choice) map[string]any {
	list := make([]map[string]any, 0, len(choices))
	for _, ch := range choices {
		list = append(list, map[string]any{
			"ballotId": ch.BallotID,
			"targetId": ch.TargetID,
			"label":    ch.Label,
		})
	}
	out := map[string]any{"text": text, "choices": list}
	if channelID != "" {
		out["channelId"] = channelID
	}
	return out
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (gw *Gateway) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// mafia:create opens a lobby. The creator gets a player id but still has
	// to join like everyone else to end up in the roster.
	io.OnEvent("/", "mafia:create", func(s socketio.Conn, payload struct {
		ChannelID  string `json:"channelId"`
		Name       string `json:"name"`
		MaxPlayers int    `json:"maxPlayers"`
	}) map[string]any {
		ctx := gw.identify(s, payload.Name)
		if _, err := gw.mgr.CreateSession(payload.ChannelID, ctx.PlayerID, payload.MaxPlayers); err != nil {
			return gw.err(s, err)
		}
		gw.enterChannel(payload.ChannelID, s, ctx)
		log.Info().Str("sid", s.ID()).Str("channel", payload.ChannelID).Msg("mafia:create")
		gw.SendChannelMessage(payload.ChannelID,
			"A game of Mafia is forming! Send join to play.", nil)
		return map[string]any{"channelId": payload.ChannelID, "playerId": ctx.PlayerID}
	})

	io.OnEvent("/", "mafia:join", func(s socketio.Conn, payload struct {
		ChannelID string `json:"channelId"`
		Name      string `json:"name"`
	}) map[string]any {
		ctx := gw.identify(s, payload.Name)
		if err := gw.mgr.JoinSession(payload.ChannelID, game.Player{ID: ctx.PlayerID, Name: ctx.Name}); err != nil {
			return gw.err(s, err)
		}
		gw.enterChannel(payload.ChannelID, s, ctx)
		log.Info().Str("sid", s.ID()).Str("channel", payload.ChannelID).
			Str("playerId", ctx.PlayerID).Msg("mafia:join")
		gw.emitLobby(payload.ChannelID)
		return map[string]any{"playerId": ctx.PlayerID}
	})

	io.OnEvent("/", "mafia:start", func(s socketio.Conn, payload struct {
		ChannelID string `json:"channelId"`
	}) map[string]any {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.PlayerID == "" {
			return gw.err(s, game.ErrNotCreator)
		}
		if err := gw.mgr.StartSession(payload.ChannelID, ctx.PlayerID); err != nil {
			return gw.err(s, err)
		}
		log.Info().Str("channel", payload.ChannelID).Msg("mafia:start")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "mafia:vote", func(s socketio.Conn, payload struct {
		BallotID string `json:"ballotId"`
		TargetID string `json:"targetId"`
	}) map[string]any {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.PlayerID == "" {
			return gw.err(s, game.ErrNotEligible)
		}
		ev := chat.VoteEvent{VoterID: ctx.PlayerID, TargetID: payload.TargetID, BallotID: payload.BallotID}
		if err := gw.mgr.CastVote(ev); err != nil {
			return gw.err(s, err)
		}
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "mafia:help", func(s socketio.Conn) map[string]any {
		s.Emit("chat:dm", messagePayload("", game.HelpText(), nil))
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx != nil {
			gw.leave(s, ctx)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// identify assigns the connection a stable player id on first contact and
// keeps it across subsequent events.
func (gw *Gateway) identify(s socketio.Conn, name string) *ConnCtx {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil {
		ctx = &ConnCtx{}
	}
	if ctx.PlayerID == "" {
		ctx.PlayerID = uuid.NewString()
	}
	if name != "" {
		ctx.Name = name
	}
	s.SetContext(ctx)
	return ctx
}

func (gw *Gateway) enterChannel(channelID string, s socketio.Conn, ctx *ConnCtx) {
	ctx.ChannelID = channelID
	s.SetContext(ctx)
	s.Join(channelID)

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.byChannel[channelID] == nil {
		gw.byChannel[channelID] = make(map[string]socketio.Conn)
	}
	gw.byChannel[channelID][s.ID()] = s
	if gw.byPlayer[ctx.PlayerID] == nil {
		gw.byPlayer[ctx.PlayerID] = make(map[string]socketio.Conn)
	}
	gw.byPlayer[ctx.PlayerID][s.ID()] = s
}

func (gw *Gateway) leave(s socketio.Conn, ctx *ConnCtx) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	if m := gw.byChannel[ctx.ChannelID]; m != nil {
		delete(m, s.ID())
	}
	if m := gw.byPlayer[ctx.PlayerID]; m != nil {
		delete(m, s.ID())
	}
}

func (gw *Gateway) emitLobby(channelID string) {
	sess, err := gw.mgr.Get(channelID)
	if err != nil {
		return
	}
	roster := sess.Roster()
	payload := map[string]any{
		"channelId": channelID,
		"players":   roster.Names(),
		"max":       roster.MaxPlayers(),
	}
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	for _, c := range gw.byChannel[channelID] {
		c.Emit("mafia:lobby", payload)
	}
}

func (gw *Gateway) err(s socketio.Conn, err error) map[string]any {
	s.Emit("error", map[string]any{"code": errCode(err), "message": err.Error()})
	return map[string]any{"error": err.Error()}
}

func errCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNoActiveSession):
		return "no_session"
	case errors.Is(err, game.ErrSessionExists):
		return "session_exists"
	case errors.Is(err, game.ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, game.ErrSessionFull):
		return "session_full"
	case errors.Is(err, game.ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, game.ErrNotCreator):
		return "not_creator"
	case errors.Is(err, game.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, game.ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, game.ErrNotEligible):
		return "not_eligible"
	default:
		return "bad_request"
	}
}
