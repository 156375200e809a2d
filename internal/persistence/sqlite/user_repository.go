package sqlite

import (
	"context"
	"fmt"

	"github.com/example/meetbot/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const userColumns = `telegram_id, full_name, role, registered_at`

// CreateUser inserts a new user. An existing telegram id yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.TelegramID <= 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)`,
		user.TelegramID,
		user.FullName,
		user.Role,
		formatTimestamp(user.RegisteredAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpsertUser inserts the user or overwrites name and role of an existing one.
// The original registration time is preserved.
func (r *UserRepository) UpsertUser(ctx context.Context, user persistence.User) error {
	if user.TelegramID <= 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			full_name = excluded.full_name,
			role = excluded.role
	`,
		user.TelegramID,
		user.FullName,
		user.Role,
		formatTimestamp(user.RegisteredAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetUser returns the user with the given telegram id.
func (r *UserRepository) GetUser(ctx context.Context, telegramID int64) (persistence.User, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID)

	var (
		user       persistence.User
		registered string
	)
	if err := row.Scan(&user.TelegramID, &user.FullName, &user.Role, &registered); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}

	var err error
	if user.RegisteredAt, err = parseTimestamp(registered); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

// ListUsers returns all users in registration order.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY registered_at, telegram_id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var (
			user       persistence.User
			registered string
		)
		if err := rows.Scan(&user.TelegramID, &user.FullName, &user.Role, &registered); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if user.RegisteredAt, err = parseTimestamp(registered); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user. Meetings they recorded are kept.
func (r *UserRepository) DeleteUser(ctx context.Context, telegramID int64) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM users WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return r.mapper.MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

var _ persistence.UserRepository = (*UserRepository)(nil)
