package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	SaveUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, identity int64) (User, error)
	DeleteUser(ctx context.Context, identity int64) error
	ListUsers(ctx context.Context) ([]User, error)
}

// UserService manages the allow-list of bot users.
type UserService struct {
	users  UserRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, now, nil)
}

// NewUserServiceWithLogger wires dependencies for the user service with a specified logger.
func NewUserServiceWithLogger(users UserRepository, now func() time.Time, logger *slog.Logger) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, now: now, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// GetUser loads a registered user.
func (s *UserService) GetUser(ctx context.Context, identity int64) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	user, err := s.users.GetUser(ctx, identity)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return user, nil
}

// ListUsers returns all users in registration order.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return users, nil
}

// CreateUser validates input and registers a new user. Registering an
// identity twice yields ErrAlreadyExists.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (user User, err error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateUser", "identity", input.Identity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user created", "role", string(user.Role))
	}()

	normalized, vErr := validateUserInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	user = User{
		Identity:     normalized.Identity,
		DisplayName:  normalized.DisplayName,
		Role:         normalized.Role,
		RegisteredAt: s.now().UTC(),
	}
	if err = mapRepoError(s.users.CreateUser(ctx, user)); err != nil {
		user = User{}
	}
	return
}

// EnsureAdmin registers identity as an administrator, promoting an existing
// user when needed. It keeps an existing user's display name.
func (s *UserService) EnsureAdmin(ctx context.Context, identity int64, displayName string) (user User, err error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "EnsureAdmin", "identity", identity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to ensure administrator", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "administrator ensured")
	}()

	existing, getErr := s.users.GetUser(ctx, identity)
	switch getErr = mapRepoError(getErr); {
	case getErr == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		existing.Role = RoleAdministrator
		user = existing
	case errors.Is(getErr, ErrNotFound):
		normalized, vErr := validateUserInput(UserInput{Identity: identity, DisplayName: displayName, Role: RoleAdministrator})
		if vErr.HasErrors() {
			err = vErr
			return
		}
		user = User{
			Identity:     normalized.Identity,
			DisplayName:  normalized.DisplayName,
			Role:         RoleAdministrator,
			RegisteredAt: s.now().UTC(),
		}
	default:
		err = getErr
		return
	}

	if err = mapRepoError(s.users.SaveUser(ctx, user)); err != nil {
		user = User{}
	}
	return
}

// DeleteUser removes a user from the allow-list.
func (s *UserService) DeleteUser(ctx context.Context, identity int64) (err error) {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteUser", "identity", identity)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	err = mapRepoError(s.users.DeleteUser(ctx, identity))
	return
}
