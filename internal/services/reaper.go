package services

import (
	"log"
	"time"

	"gameroom-backend/internal/models"
	"gameroom-backend/internal/ws"

	"gorm.io/gorm"
)

// Reaper deletes rooms left sitting in the waiting state. One fire-once timer
// per room, armed at creation. Cleanup is best-effort: failures are logged
// and otherwise ignored.
type Reaper struct {
	db      *gorm.DB
	hub     *ws.Hub
	locks   *LockTable
	timeout time.Duration
}

func NewReaper(db *gorm.DB, hub *ws.Hub, locks *LockTable, timeout time.Duration) *Reaper {
	return &Reaper{db: db, hub: hub, locks: locks, timeout: timeout}
}

func (r *Reaper) Schedule(code string, roomID uint) {
	time.AfterFunc(r.timeout, func() {
		r.reap(code, roomID)
	})
}

// reap re-checks the room's state under its lock before touching anything. A
// room that started (or already died) since the timer was armed is left alone.
// The id check keeps a stale timer from reaping a newer room that happens to
// occupy the same code.
func (r *Reaper) reap(code string, roomID uint) {
	lock := r.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	var room models.Room
	if err := r.db.Where("code = ?", code).First(&room).Error; err != nil {
		return
	}
	if room.ID != roomID || room.Status != models.RoomStatusWaiting {
		return
	}

	if err := deleteRoomCascade(r.db, &room); err != nil {
		log.Printf("reaper: failed to delete idle room %s: %v", code, err)
		return
	}

	r.hub.Broadcast(code, ws.Event{Type: ws.EventRoomDeleted, Data: map[string]string{"code": code}})
	r.locks.Forget(code)
	log.Printf("reaper: deleted idle room %s", code)
}

// ReapStale sweeps waiting rooms older than the deadline once at startup.
// Rooms created by a previous process lost their timers with it.
func (r *Reaper) ReapStale() {
	cutoff := time.Now().Add(-r.timeout)

	var rooms []models.Room
	if err := r.db.Where("status = ? AND created_at < ?", models.RoomStatusWaiting, cutoff).
		Find(&rooms).Error; err != nil {
		log.Printf("reaper: stale sweep query failed: %v", err)
		return
	}

	for _, room := range rooms {
		r.reap(room.Code, room.ID)
	}
}
