package services

import (
	"errors"

	"gameroom-backend/internal/models"

	"gorm.io/gorm"
)

// UserService is the read-only user accessor, used for label enrichment only.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Usernames returns a best-effort id→username map for the given ids. Missing
// users are simply absent; callers fall back to an empty label.
func (s *UserService) Usernames(ids []uint) map[uint]string {
	result := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return result
	}
	var users []models.User
	s.db.Where("id IN ?", ids).Find(&users)
	for _, u := range users {
		result[u.ID] = u.Username
	}
	return result
}
