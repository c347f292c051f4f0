package services

import (
	"fmt"
	"math/rand"
	"time"

	"gameroom-backend/internal/catalog"
	"gameroom-backend/internal/config"
	"gameroom-backend/internal/models"
	"gameroom-backend/internal/ws"

	"gorm.io/gorm"
)

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud or
// typed from a projector.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

type RoomService struct {
	db       *gorm.DB
	cfg      *config.Config
	hub      *ws.Hub
	catalog  *catalog.Service
	users    *UserService
	sessions *SessionService
	reaper   *Reaper
	locks    *LockTable
}

func NewRoomService(db *gorm.DB, cfg *config.Config, hub *ws.Hub, cat *catalog.Service,
	users *UserService, sessions *SessionService, reaper *Reaper, locks *LockTable) *RoomService {
	return &RoomService{
		db:       db,
		cfg:      cfg,
		hub:      hub,
		catalog:  cat,
		users:    users,
		sessions: sessions,
		reaper:   reaper,
		locks:    locks,
	}
}

func (s *RoomService) CreateRoom(hostID uint, gameID uint, name string, capacity int, mode string) (*models.Room, error) {
	game, err := s.catalog.GetGameWithQuestions(gameID)
	if err != nil {
		return nil, err
	}

	if !models.ValidMode(mode) {
		mode = game.Mode
	}
	if !models.ValidMode(mode) {
		mode = models.RoomModeQuiz
	}

	if capacity < s.cfg.MinCapacity {
		capacity = s.cfg.MinCapacity
	}
	if capacity > s.cfg.MaxCapacity {
		capacity = s.cfg.MaxCapacity
	}

	if name == "" {
		name = game.Title
	}

	code := s.generateUniqueCode()
	room := models.Room{
		Code:             code,
		Name:             name,
		GameID:           gameID,
		HostID:           hostID,
		Capacity:         capacity,
		Mode:             mode,
		Status:           models.RoomStatusWaiting,
		ParticipantCount: 1,
	}
	if err := s.db.Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	// The creator consents by creating the room, so they start out ready.
	host := models.Participant{
		RoomID:    room.ID,
		UserID:    hostID,
		Ready:     true,
		Connected: true,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(&host).Error; err != nil {
		return nil, fmt.Errorf("failed to add host participant: %w", err)
	}

	session := models.SessionState{
		RoomID: room.ID,
		Status: models.SessionStatusIdle,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session state: %w", err)
	}

	s.reaper.Schedule(code, room.ID)
	return &room, nil
}

func (s *RoomService) FindByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

func (s *RoomService) ListWaiting() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.Where("status = ?", models.RoomStatusWaiting).
		Preload("Participants").
		Order("created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) Join(code string, userID uint) (*models.Room, error) {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, ErrAlreadyStarted
	}

	var existing models.Participant
	if err := s.db.Where("room_id = ? AND user_id = ?", room.ID, userID).
		First(&existing).Error; err == nil {
		return nil, ErrAlreadyMember
	}

	var count int64
	s.db.Model(&models.Participant{}).Where("room_id = ?", room.ID).Count(&count)
	if int(count) >= room.Capacity {
		return nil, ErrRoomFull
	}

	participant := models.Participant{
		RoomID:    room.ID,
		UserID:    userID,
		Ready:     false,
		Connected: true,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(&participant).Error; err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	s.syncParticipantCount(room)
	s.broadcastRoster(room)
	return s.FindByCode(code)
}

func (s *RoomService) Leave(code string, userID uint) error {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.FindByCode(code)
	if err != nil {
		return err
	}

	var participant models.Participant
	if err := s.db.Where("room_id = ? AND user_id = ?", room.ID, userID).
		First(&participant).Error; err != nil {
		return ErrNotMember
	}

	if err := s.db.Delete(&participant).Error; err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}

	var remaining []models.Participant
	s.db.Where("room_id = ?", room.ID).Order("joined_at ASC").Find(&remaining)

	if len(remaining) == 0 {
		if err := deleteRoomCascade(s.db, room); err != nil {
			return err
		}
		s.hub.Broadcast(code, ws.Event{Type: ws.EventRoomDeleted, Data: map[string]string{"code": code}})
		s.locks.Forget(code)
		return nil
	}

	if room.HostID == userID {
		// Earliest-joined survivor inherits the room.
		room.HostID = remaining[0].UserID
	}
	room.ParticipantCount = len(remaining)
	s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Updates(map[string]interface{}{"host_id": room.HostID, "participant_count": room.ParticipantCount})

	s.broadcastRoster(room)

	// Mid-game the leaver stops counting toward "everyone answered" and
	// "everyone completed"; their departure may be what closes the question
	// or ends the game.
	if room.Status == models.RoomStatusPlaying {
		s.sessions.departureRecheckLocked(room)
	}
	return nil
}

func (s *RoomService) StartGame(code string, userID uint) (*models.SessionState, error) {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.FindByCode(code)
	if err != nil {
		return nil, err
	}
	if room.HostID != userID {
		return nil, ErrForbidden
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, ErrAlreadyStarted
	}

	var participants []models.Participant
	s.db.Where("room_id = ?", room.ID).Order("joined_at ASC").Find(&participants)
	if len(participants) < s.cfg.MinPlayers {
		return nil, ErrInsufficientPlayers
	}
	for _, p := range participants {
		if !p.Ready {
			return nil, ErrNotAllReady
		}
	}

	game, err := s.catalog.GetGameWithQuestions(room.GameID)
	if err != nil {
		return nil, err
	}
	if !models.IndependentMode(room.Mode) && len(game.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	room.Status = models.RoomStatusPlaying
	if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", room.Status).Error; err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	s.db.Model(&models.Participant{}).Where("room_id = ?", room.ID).
		Updates(map[string]interface{}{"score": 0, "rank": 0, "completion_time": nil})

	var session models.SessionState
	if err := s.db.Where("room_id = ?", room.ID).First(&session).Error; err != nil {
		return nil, fmt.Errorf("session state missing for room %s: %w", code, err)
	}
	session.CurrentQuestion = 0
	session.TotalQuestions = len(game.Questions)
	session.BuzzUserID = 0

	if models.IndependentMode(room.Mode) {
		session.Status = models.SessionStatusInProgress
		if err := s.db.Save(&session).Error; err != nil {
			return nil, fmt.Errorf("failed to update session state: %w", err)
		}
		s.hub.Broadcast(code, ws.Event{Type: ws.EventGameStarted, Data: map[string]interface{}{
			"mode":  room.Mode,
			"title": game.Title,
		}})
		return &session, nil
	}

	session.Status = models.SessionStatusIdle
	if err := s.db.Save(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to update session state: %w", err)
	}
	s.hub.Broadcast(code, ws.Event{Type: ws.EventGameStarted, Data: map[string]interface{}{
		"mode":  room.Mode,
		"title": game.Title,
	}})

	if err := s.sessions.nextQuestionLocked(room, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// syncParticipantCount recomputes the stored count from the live rows rather
// than incrementing, so the invariant cannot drift.
func (s *RoomService) syncParticipantCount(room *models.Room) {
	var count int64
	s.db.Model(&models.Participant{}).Where("room_id = ?", room.ID).Count(&count)
	room.ParticipantCount = int(count)
	s.db.Model(&models.Room{}).Where("id = ?", room.ID).Update("participant_count", count)
}

func (s *RoomService) broadcastRoster(room *models.Room) {
	roster := rosterView(s.db, s.users, room)
	s.hub.Broadcast(room.Code, ws.Event{Type: ws.EventRosterChanged, Data: roster})
}

func (s *RoomService) generateUniqueCode() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)

		if !s.codeTaken(code) {
			return code
		}
	}
}

// codeTaken reports whether any room row still claims the code. Finished
// rooms count too: their rows stay queryable for leaderboards, so reusing
// the code would make lookups ambiguous.
func (s *RoomService) codeTaken(code string) bool {
	var count int64
	s.db.Model(&models.Room{}).Where("code = ?", code).Count(&count)
	return count > 0
}

// deleteRoomCascade removes a room and everything hanging off it. Callers
// hold the room lock.
func deleteRoomCascade(db *gorm.DB, room *models.Room) error {
	if err := db.Where("room_id = ?", room.ID).Delete(&models.Response{}).Error; err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	if err := db.Where("room_id = ?", room.ID).Delete(&models.SessionState{}).Error; err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	if err := db.Where("room_id = ?", room.ID).Delete(&models.Participant{}).Error; err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if err := db.Delete(room).Error; err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
