package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_api/internal/metrics"
	"user_api/internal/model"
	"user_api/internal/repository"
	"user_api/internal/utils"

	"github.com/rs/zerolog"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrEmptyField         = errors.New("field must not be empty")
)

// FieldError rejects one request field. Err is ErrEmptyField or utils.ErrPasswordTooLong.
type FieldError struct {
	Field string
	Rule  string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", &FieldError{Field: "password", Rule: "max_bytes", Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// UserService provides registration, authentication and user management
type UserService interface {
	Register(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) error
	DeleteUser(ctx context.Context, id int) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewUserService creates a new UserService. m may be nil.
func NewUserService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, m *metrics.Metrics, log zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		metrics:  m,
		log:      log,
	}
}

// Register hashes the password, stores the user and issues a token for it
func (s *userService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, string, error) {
	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		result := "error"
		var fe *FieldError
		if errors.As(err, &fe) {
			result = "rejected"
		}
		s.metrics.AuthAttempt("register", result)
		return nil, "", err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.metrics.AuthAttempt("register", "error")
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		s.log.Error().Err(err).Int("user_id", user.ID).Msg("user created, but failed to generate token")
		s.metrics.AuthAttempt("register", "error")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	s.metrics.AuthAttempt("register", "ok")
	s.log.Info().Int("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return user, token, nil
}

// Login authenticates a user and returns a JWT token.
// An unknown email and a wrong password yield the same ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.AuthAttempt("login", "error")
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		s.metrics.AuthAttempt("login", "rejected")
		return nil, "", ErrInvalidCredentials
	}

	ok, err := utils.ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.metrics.AuthAttempt("login", "error")
		return nil, "", fmt.Errorf("failed to compare password for user %d: %w", user.ID, err)
	}
	if !ok {
		s.metrics.AuthAttempt("login", "rejected")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		s.metrics.AuthAttempt("login", "error")
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.metrics.AuthAttempt("login", "ok")
	return user, token, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser overwrites the supplied fields. A new password is hashed before it is stored.
func (s *userService) UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) error {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
		{"role", req.Role},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return &FieldError{Field: f.name, Rule: "required", Err: ErrEmptyField}
		}
	}

	upd := model.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if req.Password != nil {
		hashedPassword, err := hashPassword(*req.Password)
		if err != nil {
			return err
		}
		upd.PasswordHash = &hashedPassword
	}
	if upd.IsEmpty() {
		return ErrNoFieldsToUpdate
	}

	affected, err := s.userRepo.Update(ctx, id, upd)
	if err != nil {
		return fmt.Errorf("failed to update user in repo: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user in repo: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
