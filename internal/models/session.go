package models

import "time"

// SessionState is the progression record for a room's game, one row per room.
// It is created empty alongside the room and cascades with it.
type SessionState struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RoomID          uint      `gorm:"not null;uniqueIndex" json:"room_id"`
	Status          string    `gorm:"size:20;not null;default:'idle'" json:"status"`
	CurrentQuestion int       `gorm:"not null;default:0" json:"current_question"`
	TotalQuestions  int       `gorm:"not null;default:0" json:"total_questions"`
	BuzzUserID      uint      `gorm:"not null;default:0" json:"buzz_user_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const (
	SessionStatusIdle       = "idle"
	SessionStatusQuestion   = "question"
	SessionStatusResolved   = "resolved"
	SessionStatusInProgress = "in_progress"
	SessionStatusFinished   = "finished"
)
