package services

import (
	"errors"
	"testing"

	"gameroom-backend/internal/models"
)

func TestSetReadyRecomputesAggregate(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	guest := env.createUser(t, "bob")

	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	// Host alone, pre-marked ready: one ready player is not "all ready".
	allReady, err := env.roster.SetReady(room.Code, host, true)
	if err != nil {
		t.Fatalf("SetReady failed: %v", err)
	}
	if allReady {
		t.Error("a single participant must not count as all ready")
	}

	env.rooms.Join(room.Code, guest)

	allReady, _ = env.roster.SetReady(room.Code, host, true)
	if allReady {
		t.Error("all ready with an unready participant")
	}

	allReady, err = env.roster.SetReady(room.Code, guest, true)
	if err != nil {
		t.Fatalf("SetReady failed: %v", err)
	}
	if !allReady {
		t.Error("expected all ready once both flags are set")
	}

	// Idempotent: repeating the call changes nothing.
	allReady, _ = env.roster.SetReady(room.Code, guest, true)
	if !allReady {
		t.Error("repeated SetReady flipped the aggregate")
	}

	allReady, _ = env.roster.SetReady(room.Code, guest, false)
	if allReady {
		t.Error("unready participant must break the aggregate")
	}
}

func TestSetReadyErrors(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	stranger := env.createUser(t, "mallory")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	if _, err := env.roster.SetReady("ZZZZZZ", host, true); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := env.roster.SetReady(room.Code, stranger, true); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestMarkConnectedKeepsParticipant(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	guest := env.createUser(t, "bob")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)
	env.rooms.Join(room.Code, guest)

	if err := env.roster.MarkConnected(room.Code, guest, false); err != nil {
		t.Fatalf("MarkConnected failed: %v", err)
	}

	// Disconnect is soft: the participant row survives for reconnection.
	p := env.participant(t, room.ID, guest)
	if p.Connected {
		t.Error("connected flag not cleared")
	}

	if err := env.roster.MarkConnected(room.Code, guest, true); err != nil {
		t.Fatalf("MarkConnected failed: %v", err)
	}
	if !env.participant(t, room.ID, guest).Connected {
		t.Error("connected flag not restored")
	}
}

func TestRosterViewEnrichesUsernames(t *testing.T) {
	env := newTestEnv(t)
	host := env.createUser(t, "alice")
	room, _ := env.rooms.CreateRoom(host, 0, "", 4, models.RoomModeQuiz)

	roster, err := env.roster.Roster(room.Code)
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(roster))
	}
	if roster[0].Username != "alice" || !roster[0].IsHost {
		t.Errorf("unexpected roster entry: %+v", roster[0])
	}
}
