package handlers

import (
	"net/http"

	"gameroom-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	rooms    *services.RoomService
	roster   *services.RosterService
	sessions *services.SessionService
}

func NewRoomHandler(rooms *services.RoomService, roster *services.RosterService, sessions *services.SessionService) *RoomHandler {
	return &RoomHandler{rooms: rooms, roster: roster, sessions: sessions}
}

type CreateRoomRequest struct {
	GameID   uint   `json:"game_id"`
	Name     string `json:"name" binding:"max=100"`
	Capacity int    `json:"capacity"`
	Mode     string `json:"mode" example:"quiz"`
}

type SetReadyRequest struct {
	Ready *bool `json:"ready" binding:"required"`
}

type AnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=500"`
}

type CompleteRequest struct {
	ElapsedTime float64 `json:"elapsed_time" binding:"required,gt=0"`
}

// CreateRoom godoc
// @Summary      Create a room
// @Description  Creates a room for the given game with the caller as host
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room settings"
// @Success      201 {object} models.Room
// @Security     BearerAuth
// @Router       /api/v1/rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	room, err := h.rooms.CreateRoom(userID, req.GameID, req.Name, req.Capacity, req.Mode)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ListWaiting godoc
// @Summary      List joinable rooms
// @Tags         rooms
// @Produce      json
// @Success      200 {array} models.Room
// @Router       /api/v1/rooms [get]
func (h *RoomHandler) ListWaiting(c *gin.Context) {
	rooms, err := h.rooms.ListWaiting()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom returns the full room snapshot: room, enriched roster, session view.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	code := c.Param("code")

	room, err := h.rooms.FindByCode(code)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	roster, _ := h.roster.Roster(code)
	session, _ := h.sessions.SessionView(code)

	c.JSON(http.StatusOK, gin.H{
		"room":    room,
		"roster":  roster,
		"session": session,
	})
}

func (h *RoomHandler) Join(c *gin.Context) {
	userID := c.GetUint("user_id")
	room, err := h.rooms.Join(c.Param("code"), userID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Leave(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := h.rooms.Leave(c.Param("code"), userID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "left room"})
}

func (h *RoomHandler) SetReady(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req SetReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	allReady, err := h.roster.SetReady(c.Param("code"), userID, *req.Ready)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": *req.Ready, "all_ready": allReady})
}

// StartGame godoc
// @Summary      Start the game
// @Description  Host-only. Requires at least 2 participants, all ready.
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} models.SessionState
// @Security     BearerAuth
// @Router       /api/v1/rooms/{code}/start [post]
func (h *RoomHandler) StartGame(c *gin.Context) {
	userID := c.GetUint("user_id")
	session, err := h.rooms.StartGame(c.Param("code"), userID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *RoomHandler) NextQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := h.sessions.Advance(c.Param("code"), userID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "advanced"})
}

func (h *RoomHandler) Buzz(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := h.sessions.Buzz(c.Param("code"), userID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "buzz accepted"})
}

func (h *RoomHandler) SubmitAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	graded, err := h.sessions.SubmitAnswer(c.Param("code"), userID, req.Answer)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, graded)
}

func (h *RoomHandler) Complete(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.sessions.CompleteIndependently(c.Param("code"), userID, req.ElapsedTime); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "completion recorded"})
}

// GetLeaderboard godoc
// @Summary      Room leaderboard
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {array} services.RankEntry
// @Router       /api/v1/rooms/{code}/leaderboard [get]
func (h *RoomHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.sessions.Leaderboard(c.Param("code"))
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
