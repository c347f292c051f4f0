package models

import "time"

type Room struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	Code             string        `gorm:"size:6;index" json:"code"`
	Name             string        `gorm:"size:100;not null" json:"name"`
	GameID           uint          `gorm:"not null" json:"game_id"`
	HostID           uint          `gorm:"not null;index" json:"host_id"`
	Capacity         int           `gorm:"not null;default:8" json:"capacity"`
	Mode             string        `gorm:"size:10;not null;default:'quiz'" json:"mode"`
	Status           string        `gorm:"size:20;not null;default:'waiting'" json:"status"`
	ParticipantCount int           `gorm:"not null;default:0" json:"participant_count"`
	Participants     []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

const (
	RoomModeQuiz   = "quiz"
	RoomModeSpeed  = "speed"
	RoomModePuzzle = "puzzle"
	RoomModeCoding = "coding"

	RoomStatusWaiting  = "waiting"
	RoomStatusPlaying  = "playing"
	RoomStatusFinished = "finished"
)

// IndependentMode reports whether the mode races players against the clock
// instead of walking a shared question sequence.
func IndependentMode(mode string) bool {
	return mode == RoomModePuzzle || mode == RoomModeCoding
}

func ValidMode(mode string) bool {
	switch mode {
	case RoomModeQuiz, RoomModeSpeed, RoomModePuzzle, RoomModeCoding:
		return true
	}
	return false
}
