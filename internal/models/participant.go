package models

import "time"

type Participant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RoomID         uint      `gorm:"not null;uniqueIndex:idx_room_user" json:"room_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_room_user" json:"user_id"`
	Ready          bool      `gorm:"not null;default:false" json:"ready"`
	Connected      bool      `gorm:"not null;default:true" json:"connected"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	Rank           int       `gorm:"not null;default:0" json:"rank"`
	CompletionTime *float64  `json:"completion_time,omitempty"`
	JoinedAt       time.Time `json:"joined_at"`
}
