package models

import "time"

type Game struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Mode      string    `gorm:"size:10;not null;default:'quiz'" json:"mode"`
	Levels    []Level   `gorm:"foreignKey:GameID" json:"levels,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Level struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	GameID    uint       `gorm:"not null;index" json:"game_id"`
	Title     string     `gorm:"size:255" json:"title"`
	OrderNum  int        `gorm:"not null" json:"order_num"`
	Questions []Question `gorm:"foreignKey:LevelID" json:"questions,omitempty"`
}

type Question struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	LevelID   uint     `gorm:"not null;index" json:"level_id"`
	Text      string   `gorm:"type:text;not null" json:"text"`
	Answer    string   `gorm:"size:500;not null" json:"answer"`
	OrderNum  int      `gorm:"not null" json:"order_num"`
	TimeLimit int      `gorm:"not null;default:30" json:"time_limit"`
	Points    int      `gorm:"not null;default:100" json:"points"`
	Options   []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

// Option is a distractor shown alongside the correct answer.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
}
