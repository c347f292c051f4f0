// Package catalog is the read-only accessor for games and their questions.
// The room core never walks levels itself; it asks the catalog for the full
// flattened question list of a game.
package catalog

import (
	"errors"

	"gameroom-backend/internal/models"

	"gorm.io/gorm"
)

var ErrGameNotFound = errors.New("game not found")

// DefaultGameID is a reserved game reference that always resolves to the
// built-in demo game, even with an empty catalog.
const DefaultGameID uint = 0

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type GameData struct {
	Title     string            `json:"title"`
	Mode      string            `json:"mode"`
	Questions []models.Question `json:"questions"`
}

// GetGameWithQuestions returns the game's questions flattened across levels,
// levels and questions both in their declared order.
func (s *Service) GetGameWithQuestions(gameID uint) (*GameData, error) {
	if gameID == DefaultGameID {
		return defaultGame(), nil
	}

	var game models.Game
	if err := s.db.
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Levels.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Levels.Questions.Options").
		First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	data := &GameData{Title: game.Title, Mode: game.Mode}
	for _, lvl := range game.Levels {
		data.Questions = append(data.Questions, lvl.Questions...)
	}
	return data, nil
}
