package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gameroom-backend/internal/config"
	"gameroom-backend/internal/middleware"
	"gameroom-backend/internal/services"
	"gameroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type WSHandler struct {
	cfg      *config.Config
	hub      *ws.Hub
	rooms    *services.RoomService
	roster   *services.RosterService
	sessions *services.SessionService
}

func NewWSHandler(cfg *config.Config, hub *ws.Hub, rooms *services.RoomService,
	roster *services.RosterService, sessions *services.SessionService) *WSHandler {
	return &WSHandler{cfg: cfg, hub: hub, rooms: rooms, roster: roster, sessions: sessions}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleRoomWebSocket godoc
// @Summary      Room realtime channel
// @Description  Subscribe to room events and send in-game commands
// @Tags         websocket
// @Param        code path string true "Room code"
// @Param        token query string true "User token"
// @Router       /ws/room/{code} [get]
func (h *WSHandler) HandleRoomWebSocket(c *gin.Context) {
	code := c.Param("code")

	userID, err := middleware.ParseUserToken(c.Query("token"), h.cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		return
	}

	if _, err := h.rooms.FindByCode(code); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	client := ws.NewClient(userID, conn)
	h.hub.AddClient(code, client)
	defer h.hub.RemoveClient(code, client)

	// Members get their connected flag flipped; spectating non-members just
	// receive the event stream.
	if err := h.roster.MarkConnected(code, userID, true); err != nil && !errors.Is(err, services.ErrNotMember) && !errors.Is(err, services.ErrRoomNotFound) {
		log.Printf("ws: connect hook failed for room %s: %v", code, err)
	}
	defer func() {
		if err := h.roster.MarkConnected(code, userID, false); err != nil && !errors.Is(err, services.ErrNotMember) && !errors.Is(err, services.ErrRoomNotFound) {
			log.Printf("ws: disconnect hook failed for room %s: %v", code, err)
		}
	}()

	h.replaySnapshot(code, client)

	limiter := rate.NewLimiter(rate.Limit(h.cfg.WSMessageRate), h.cfg.WSMessageBurst)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if !limiter.Allow() {
			h.hub.SendTo(client, ws.Event{Type: ws.EventError, Data: "too many messages"})
			continue
		}
		h.dispatch(code, userID, client, data)
	}
}

// replaySnapshot sends the current room state to one freshly subscribed
// connection. Reconnection means re-subscribing, not message replay.
func (h *WSHandler) replaySnapshot(code string, client *ws.Client) {
	room, err := h.rooms.FindByCode(code)
	if err != nil {
		return
	}
	roster, _ := h.roster.Roster(code)
	session, _ := h.sessions.SessionView(code)

	h.hub.SendTo(client, ws.Event{Type: ws.EventRoomState, Data: gin.H{
		"room":    room,
		"roster":  roster,
		"session": session,
	}})
}

func (h *WSHandler) dispatch(code string, userID uint, client *ws.Client, data []byte) {
	var cmd ws.Command
	if err := json.Unmarshal(data, &cmd); err != nil || !cmd.Validate() {
		h.hub.SendTo(client, ws.Event{Type: ws.EventError, Data: "invalid command"})
		return
	}

	var err error
	switch cmd.Type {
	case ws.CmdSetReady:
		_, err = h.roster.SetReady(code, userID, *cmd.Ready)
	case ws.CmdBuzz:
		err = h.sessions.Buzz(code, userID)
	case ws.CmdAnswer:
		_, err = h.sessions.SubmitAnswer(code, userID, cmd.Answer)
	case ws.CmdComplete:
		err = h.sessions.CompleteIndependently(code, userID, cmd.ElapsedTime)
	case ws.CmdNext:
		err = h.sessions.Advance(code, userID)
	}

	if err != nil {
		h.hub.SendTo(client, ws.Event{Type: ws.EventError, Data: err.Error()})
	}
}
