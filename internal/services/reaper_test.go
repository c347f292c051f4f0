package services

import (
	"errors"
	"testing"
	"time"

	"gameroom-backend/internal/models"
)

func TestReaperDeletesIdleWaitingRoom(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	room, err := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	fast := NewReaper(env.db, env.hub, env.locks, 20*time.Millisecond)
	fast.Schedule(room.Code, room.ID)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := env.rooms.FindByCode(room.Code); errors.Is(err, ErrRoomNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("idle room was not reaped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var participants, sessions int64
	env.db.Model(&models.Participant{}).Where("room_id = ?", room.ID).Count(&participants)
	env.db.Model(&models.SessionState{}).Where("room_id = ?", room.ID).Count(&sessions)
	if participants != 0 || sessions != 0 {
		t.Errorf("cascade incomplete: %d participants, %d sessions left", participants, sessions)
	}
}

func TestReaperLeavesStartedRoomAlone(t *testing.T) {
	env := newTestEnv(t)
	room, _, _ := env.startedRoom(t, models.RoomModeQuiz)

	fast := NewReaper(env.db, env.hub, env.locks, 20*time.Millisecond)
	fast.Schedule(room.Code, room.ID)
	time.Sleep(100 * time.Millisecond)

	if _, err := env.rooms.FindByCode(room.Code); err != nil {
		t.Errorf("started room must survive the reaper: %v", err)
	}
}

func TestReaperIgnoresRoomWithRecycledCode(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	// A timer armed for an earlier room whose code this one inherited must
	// not fire against the current occupant.
	env.reaper.reap(room.Code, room.ID+1)
	if _, err := env.rooms.FindByCode(room.Code); err != nil {
		t.Fatalf("room reaped by a stale timer: %v", err)
	}

	env.reaper.reap(room.Code, room.ID)
	if _, err := env.rooms.FindByCode(room.Code); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected matching-id reap to delete the room, got %v", err)
	}
}

func TestReapStaleSweepsOldWaitingRooms(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	// Backdate the room past the deadline, as if it survived a restart.
	past := time.Now().Add(-time.Hour)
	env.db.Model(&models.Room{}).Where("id = ?", room.ID).Update("created_at", past)

	env.reaper.ReapStale()

	if _, err := env.rooms.FindByCode(room.Code); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected stale room reaped, got %v", err)
	}
}

func TestReapStaleKeepsFreshRooms(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	env.reaper.ReapStale()

	if _, err := env.rooms.FindByCode(room.Code); err != nil {
		t.Errorf("fresh waiting room must survive the sweep: %v", err)
	}
}
