package services

import (
	"fmt"
	"time"

	"gameroom-backend/internal/config"
	"gameroom-backend/internal/models"
	"gameroom-backend/internal/ws"

	"gorm.io/gorm"
)

type RosterService struct {
	db    *gorm.DB
	cfg   *config.Config
	hub   *ws.Hub
	users *UserService
	locks *LockTable
}

func NewRosterService(db *gorm.DB, cfg *config.Config, hub *ws.Hub, users *UserService, locks *LockTable) *RosterService {
	return &RosterService{db: db, cfg: cfg, hub: hub, users: users, locks: locks}
}

// SetReady flips one participant's ready flag and returns the recomputed
// aggregate readiness. The flag update is idempotent.
func (s *RosterService) SetReady(code string, userID uint, ready bool) (bool, error) {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, participant, err := s.find(code, userID)
	if err != nil {
		return false, err
	}

	if participant.Ready != ready {
		participant.Ready = ready
		if err := s.db.Save(participant).Error; err != nil {
			return false, fmt.Errorf("failed to update readiness: %w", err)
		}
	}

	allReady := s.allReady(room.ID)

	s.hub.Broadcast(code, ws.Event{Type: ws.EventRosterChanged, Data: rosterView(s.db, s.users, room)})
	if allReady {
		s.hub.Broadcast(code, ws.Event{Type: ws.EventAllReady, Data: map[string]string{"code": code}})
	}
	return allReady, nil
}

// MarkConnected flips the connection flag on transport connect/disconnect.
// Disconnect never removes the participant; a dropped player can come back.
func (s *RosterService) MarkConnected(code string, userID uint, connected bool) error {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, participant, err := s.find(code, userID)
	if err != nil {
		return err
	}

	if participant.Connected != connected {
		participant.Connected = connected
		if err := s.db.Save(participant).Error; err != nil {
			return fmt.Errorf("failed to update connection flag: %w", err)
		}
	}

	s.hub.Broadcast(code, ws.Event{Type: ws.EventRosterChanged, Data: rosterView(s.db, s.users, room)})
	return nil
}

func (s *RosterService) Roster(code string) ([]ParticipantView, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return rosterView(s.db, s.users, &room), nil
}

// allReady is recomputed from the full roster every time. No cached counter
// to drift.
func (s *RosterService) allReady(roomID uint) bool {
	var participants []models.Participant
	s.db.Where("room_id = ?", roomID).Find(&participants)

	if len(participants) < s.cfg.MinPlayers {
		return false
	}
	for _, p := range participants {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (s *RosterService) find(code string, userID uint) (*models.Room, *models.Participant, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, nil, ErrRoomNotFound
	}
	var participant models.Participant
	if err := s.db.Where("room_id = ? AND user_id = ?", room.ID, userID).
		First(&participant).Error; err != nil {
		return nil, nil, ErrNotMember
	}
	return &room, &participant, nil
}

type ParticipantView struct {
	UserID         uint      `json:"user_id"`
	Username       string    `json:"username"`
	IsHost         bool      `json:"is_host"`
	Ready          bool      `json:"ready"`
	Connected      bool      `json:"connected"`
	Score          int       `json:"score"`
	Rank           int       `json:"rank,omitempty"`
	CompletionTime *float64  `json:"completion_time,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
}

func rosterView(db *gorm.DB, users *UserService, room *models.Room) []ParticipantView {
	var participants []models.Participant
	db.Where("room_id = ?", room.ID).Order("joined_at ASC").Find(&participants)

	ids := make([]uint, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}
	names := users.Usernames(ids)

	views := make([]ParticipantView, len(participants))
	for i, p := range participants {
		views[i] = ParticipantView{
			UserID:         p.UserID,
			Username:       names[p.UserID],
			IsHost:         p.UserID == room.HostID,
			Ready:          p.Ready,
			Connected:      p.Connected,
			Score:          p.Score,
			Rank:           p.Rank,
			CompletionTime: p.CompletionTime,
			JoinedAt:       p.JoinedAt,
		}
	}
	return views
}
