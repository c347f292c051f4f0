package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gameroom-backend/internal/catalog"
	"gameroom-backend/internal/config"
	"gameroom-backend/internal/models"
	"gameroom-backend/internal/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

type testEnv struct {
	db       *gorm.DB
	cfg      *config.Config
	hub      *ws.Hub
	locks    *LockTable
	catalog  *catalog.Service
	users    *UserService
	sessions *SessionService
	reaper   *Reaper
	rooms    *RoomService
	roster   *RosterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// Each test gets its own named in-memory database; a plain :memory: DSN
	// would give every pooled connection a different empty database.
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Game{}, &models.Level{}, &models.Question{},
		&models.Option{}, &models.Room{}, &models.Participant{},
		&models.SessionState{}, &models.Response{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		RoomIdleTimeout:  5 * time.Second,
		AutoAdvanceDelay: 10 * time.Millisecond,
		BasePoints:       100,
		BuzzBonus:        50,
		MinCapacity:      2,
		MaxCapacity:      8,
		MinPlayers:       2,
	}

	hub := ws.NewHub()
	locks := NewLockTable()
	cat := catalog.NewService(db)
	users := NewUserService(db)
	sessions := NewSessionService(db, cfg, hub, cat, users, locks)
	reaper := NewReaper(db, hub, locks, cfg.RoomIdleTimeout)
	rooms := NewRoomService(db, cfg, hub, cat, users, sessions, reaper, locks)
	roster := NewRosterService(db, cfg, hub, users, locks)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		hub:      hub,
		locks:    locks,
		catalog:  cat,
		users:    users,
		sessions: sessions,
		reaper:   reaper,
		rooms:    rooms,
		roster:   roster,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) uint {
	t.Helper()
	user := models.User{Username: username}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user.ID
}

// seedGame inserts a two-level game with three questions total.
func (e *testEnv) seedGame(t *testing.T, mode string) uint {
	t.Helper()
	game := models.Game{Title: "Test Game", Mode: mode}
	if err := e.db.Create(&game).Error; err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	level1 := models.Level{GameID: game.ID, Title: "Level 1", OrderNum: 1}
	level2 := models.Level{GameID: game.ID, Title: "Level 2", OrderNum: 2}
	e.db.Create(&level1)
	e.db.Create(&level2)

	questions := []models.Question{
		{LevelID: level1.ID, Text: "2+2?", Answer: "4", OrderNum: 1, TimeLimit: 30, Points: 100,
			Options: []models.Option{{Text: "3"}, {Text: "5"}, {Text: "6"}}},
		{LevelID: level1.ID, Text: "3*3?", Answer: "9", OrderNum: 2, TimeLimit: 30, Points: 100,
			Options: []models.Option{{Text: "6"}, {Text: "8"}, {Text: "12"}}},
		{LevelID: level2.ID, Text: "10/2?", Answer: "5", OrderNum: 1, TimeLimit: 30, Points: 100,
			Options: []models.Option{{Text: "2"}, {Text: "4"}, {Text: "20"}}},
	}
	for i := range questions {
		if err := e.db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("failed to create question: %v", err)
		}
	}
	return game.ID
}

// startedRoom creates a two-player room in the given mode and starts the
// game, leaving the first question active for sequence modes.
func (e *testEnv) startedRoom(t *testing.T, mode string) (*models.Room, uint, uint) {
	t.Helper()
	gameID := e.seedGame(t, mode)
	host := e.createUser(t, "host-"+mode)
	guest := e.createUser(t, "guest-"+mode)

	room, err := e.rooms.CreateRoom(host, gameID, "", 4, mode)
	if err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	if _, err := e.rooms.Join(room.Code, guest); err != nil {
		t.Fatalf("failed to join room: %v", err)
	}
	if _, err := e.roster.SetReady(room.Code, guest, true); err != nil {
		t.Fatalf("failed to set ready: %v", err)
	}
	if _, err := e.rooms.StartGame(room.Code, host); err != nil {
		t.Fatalf("failed to start game: %v", err)
	}

	started, err := e.rooms.FindByCode(room.Code)
	if err != nil {
		t.Fatalf("failed to reload room: %v", err)
	}
	return started, host, guest
}

func (e *testEnv) participant(t *testing.T, roomID, userID uint) *models.Participant {
	t.Helper()
	var p models.Participant
	if err := e.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&p).Error; err != nil {
		t.Fatalf("participant %d not found in room %d: %v", userID, roomID, err)
	}
	return &p
}

func (e *testEnv) session(t *testing.T, roomID uint) *models.SessionState {
	t.Helper()
	var s models.SessionState
	if err := e.db.Where("room_id = ?", roomID).First(&s).Error; err != nil {
		t.Fatalf("session state not found for room %d: %v", roomID, err)
	}
	return &s
}
