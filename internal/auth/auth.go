package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/store"
)

// Validation and uniqueness errors surfaced to the caller.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyField         = errors.New("username, email and password are required")
)

// Session is the result of a successful login, stored in the user config.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	LoginAt  string `json:"loginAt"`
}

// Service implements registration and login over the user store.
type Service struct {
	users *store.UserStore
}

// NewService returns an auth service.
func NewService(users *store.UserStore) *Service {
	return &Service{users: users}
}

// Register creates a new account. Username and email must both be unused.
// The duplicate checks and the insert are separate statements, so the unique
// indexes on the users table are the final arbiter under concurrency.
func (s *Service) Register(username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrEmptyField
	}

	count, err := s.users.CountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	count, err = s.users.CountByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		CreatedDate: time.Now(),
	}
	if _, err := s.users.Insert(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a fresh session. Unknown
// usernames and wrong passwords produce the same error.
func (s *Service) Login(username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &Session{
		Username: user.Username,
		Token:    uuid.New().String(),
		LoginAt:  time.Now().Format(time.RFC3339),
	}, nil
}
