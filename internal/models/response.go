package models

import "time"

// Response is one user's graded answer for one question index. The unique
// index is what makes repeat submissions for the same question detectable.
type Response struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomID        uint      `gorm:"not null;uniqueIndex:idx_response_unique" json:"room_id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_response_unique" json:"user_id"`
	QuestionIndex int       `gorm:"not null;uniqueIndex:idx_response_unique" json:"question_index"`
	Answer        string    `gorm:"size:500;not null" json:"answer"`
	IsCorrect     bool      `gorm:"not null" json:"is_correct"`
	Score         int       `gorm:"not null;default:0" json:"score"`
	AnsweredAt    time.Time `json:"answered_at"`
}
