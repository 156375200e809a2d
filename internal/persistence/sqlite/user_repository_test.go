package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meetbot/internal/persistence"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(setupPool(t))
	ctx := context.Background()
	registered := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	err := repo.CreateUser(ctx, persistence.User{TelegramID: 42, FullName: "Анна", Role: "user", RegisteredAt: registered})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := repo.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.FullName != "Анна" || got.Role != "user" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if !got.RegisteredAt.Equal(registered) {
		t.Fatalf("expected registered_at %v, got %v", registered, got.RegisteredAt)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := NewUserRepository(setupPool(t))
	ctx := context.Background()
	user := persistence.User{TelegramID: 42, FullName: "Анна", Role: "user", RegisteredAt: time.Now()}

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := repo.CreateUser(ctx, user); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_InvalidRole(t *testing.T) {
	repo := NewUserRepository(setupPool(t))

	err := repo.CreateUser(context.Background(), persistence.User{TelegramID: 1, FullName: "Анна", Role: "root", RegisteredAt: time.Now()})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestUserRepository_UpsertKeepsRegistration(t *testing.T) {
	repo := NewUserRepository(setupPool(t))
	ctx := context.Background()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.UpsertUser(ctx, persistence.User{TelegramID: 7, FullName: "Old", Role: "user", RegisteredAt: first}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := repo.UpsertUser(ctx, persistence.User{TelegramID: 7, FullName: "New", Role: "admin", RegisteredAt: first.AddDate(1, 0, 0)}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	got, err := repo.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.FullName != "New" || got.Role != "admin" {
		t.Fatalf("expected updated name and role, got %+v", got)
	}
	if !got.RegisteredAt.Equal(first) {
		t.Fatalf("expected registration time to be kept, got %v", got.RegisteredAt)
	}
}

func TestUserRepository_ListAndDelete(t *testing.T) {
	repo := NewUserRepository(setupPool(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []int64{30, 10, 20} {
		user := persistence.User{TelegramID: id, FullName: "User", Role: "user", RegisteredAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 3 || users[0].TelegramID != 30 || users[2].TelegramID != 20 {
		t.Fatalf("expected registration order, got %+v", users)
	}

	if err := repo.DeleteUser(ctx, 10); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := repo.GetUser(ctx, 10); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteUser(ctx, 10); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}
