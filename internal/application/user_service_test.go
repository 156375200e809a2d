package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meetbot/internal/persistence"
)

type userRepoStub struct {
	users     map[int64]User
	saved     []User
	deleted   []int64
	createErr error
}

func newUserRepoStub(users ...User) *userRepoStub {
	stub := &userRepoStub{users: make(map[int64]User)}
	for _, u := range users {
		stub.users[u.Identity] = u
	}
	return stub
}

func (r *userRepoStub) CreateUser(ctx context.Context, user User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.users[user.Identity]; ok {
		return persistence.ErrDuplicate
	}
	r.users[user.Identity] = user
	return nil
}

func (r *userRepoStub) SaveUser(ctx context.Context, user User) error {
	r.users[user.Identity] = user
	r.saved = append(r.saved, user)
	return nil
}

func (r *userRepoStub) GetUser(ctx context.Context, identity int64) (User, error) {
	u, ok := r.users[identity]
	if !ok {
		return User{}, persistence.ErrNotFound
	}
	return u, nil
}

func (r *userRepoStub) DeleteUser(ctx context.Context, identity int64) error {
	if _, ok := r.users[identity]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.users, identity)
	r.deleted = append(r.deleted, identity)
	return nil
}

func (r *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func fixedNow() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

func TestUserService_CreateUser(t *testing.T) {
	t.Run("registers operators by default", func(t *testing.T) {
		repo := newUserRepoStub()
		svc := NewUserService(repo, fixedNow)

		user, err := svc.CreateUser(context.Background(), UserInput{Identity: 42, DisplayName: "  Иван Петров "})
		if err != nil {
			t.Fatalf("CreateUser returned error: %v", err)
		}
		if user.Role != RoleOperator || user.DisplayName != "Иван Петров" {
			t.Fatalf("unexpected user %+v", user)
		}
		if !user.RegisteredAt.Equal(fixedNow()) {
			t.Fatalf("unexpected registration time %v", user.RegisteredAt)
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		repo := newUserRepoStub(User{Identity: 42, DisplayName: "Иван", Role: RoleOperator})
		_, err := NewUserService(repo, fixedNow).CreateUser(context.Background(), UserInput{Identity: 42, DisplayName: "Иван"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("validates the display name", func(t *testing.T) {
		repo := newUserRepoStub()
		_, err := NewUserService(repo, fixedNow).CreateUser(context.Background(), UserInput{Identity: 42, DisplayName: "И"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Message(FieldDisplayName) == "" {
			t.Fatalf("expected display name validation error, got %v", err)
		}
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("creates a missing administrator", func(t *testing.T) {
		repo := newUserRepoStub()
		user, err := NewUserService(repo, fixedNow).EnsureAdmin(context.Background(), 1, "Администратор")
		if err != nil {
			t.Fatalf("EnsureAdmin returned error: %v", err)
		}
		if !user.IsAdmin() || len(repo.saved) != 1 {
			t.Fatalf("expected saved administrator, got %+v", repo.saved)
		}
	})

	t.Run("promotes an operator and keeps their name", func(t *testing.T) {
		repo := newUserRepoStub(User{Identity: 1, DisplayName: "Мария", Role: RoleOperator})
		user, err := NewUserService(repo, fixedNow).EnsureAdmin(context.Background(), 1, "Администратор")
		if err != nil {
			t.Fatalf("EnsureAdmin returned error: %v", err)
		}
		if !user.IsAdmin() || user.DisplayName != "Мария" {
			t.Fatalf("unexpected user %+v", user)
		}
	})

	t.Run("leaves an existing administrator untouched", func(t *testing.T) {
		repo := newUserRepoStub(User{Identity: 1, DisplayName: "Мария", Role: RoleAdministrator})
		if _, err := NewUserService(repo, fixedNow).EnsureAdmin(context.Background(), 1, "x"); err != nil {
			t.Fatalf("EnsureAdmin returned error: %v", err)
		}
		if len(repo.saved) != 0 {
			t.Fatalf("expected no write, got %+v", repo.saved)
		}
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := newUserRepoStub(User{Identity: 5, DisplayName: "Олег", Role: RoleOperator})
	svc := NewUserService(repo, fixedNow)

	if err := svc.DeleteUser(context.Background(), 5); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
