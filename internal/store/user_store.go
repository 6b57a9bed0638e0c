package store

import (
	"errors"
	"fmt"

	"github.com/silenthink/memo-cli/internal/models"
	"gorm.io/gorm"
)

// UserStore provides account lookups and registration inserts.
type UserStore struct {
	db *gorm.DB
}

// Insert persists a new user and returns its assigned id.
func (u *UserStore) Insert(user *models.User) (int64, error) {
	if err := u.db.Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return user.ID, nil
}

// FindByUsername fetches a user by username. Returns ErrNotFound when the
// username is unknown.
func (u *UserStore) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := u.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %q: %w", username, err)
	}
	return &user, nil
}

// CountByUsername returns the number of users with the given username.
func (u *UserStore) CountByUsername(username string) (int64, error) {
	var count int64
	err := u.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by username: %w", err)
	}
	return count, nil
}

// CountByEmail returns the number of users with the given email.
func (u *UserStore) CountByEmail(email string) (int64, error) {
	var count int64
	err := u.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users by email: %w", err)
	}
	return count, nil
}

// ListAll returns every user, newest account first.
func (u *UserStore) ListAll() ([]models.User, error) {
	var users []models.User
	if err := u.db.Order("created_date DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
