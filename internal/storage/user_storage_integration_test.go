//go:build integration
// +build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/agamariel/bankdash/internal/migrations"
	"github.com/agamariel/bankdash/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

func getTestDBPool(t *testing.T) *pgxpool.Pool {
	dbURI := os.Getenv("DATABASE_URI")
	if dbURI == "" {
		t.Skip("DATABASE_URI not set, skipping integration tests")
	}

	pool, err := pgxpool.New(context.Background(), dbURI)
	if err != nil {
		t.Fatalf("Unable to connect to database: %v", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		pool.Close()
		t.Fatalf("Unable to run migrations: %v", err)
	}

	return pool
}

func newTestUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Username:     "user_" + uuid.New().String(),
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}
}

func TestPostgresUserStorage_Create(t *testing.T) {
	pool := getTestDBPool(t)
	defer pool.Close()

	storage := NewPostgresUserStorage(pool)
	ctx := context.Background()

	t.Run("successful create", func(t *testing.T) {
		user := newTestUser()

		err := storage.Create(ctx, user)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		// Проверяем, что пользователь создан
		retrieved, err := storage.GetByUsername(ctx, user.Username)
		if err != nil {
			t.Fatalf("GetByUsername() error = %v", err)
		}

		if retrieved.Username != user.Username {
			t.Errorf("Username mismatch: got %v, want %v", retrieved.Username, user.Username)
		}
		if !retrieved.IsActive {
			t.Error("Expected user to be active")
		}
		if retrieved.LastLoginAt != nil {
			t.Errorf("Expected nil LastLoginAt, got %v", retrieved.LastLoginAt)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		user1 := newTestUser()
		if err := storage.Create(ctx, user1); err != nil {
			t.Fatalf("First Create() error = %v", err)
		}

		user2 := newTestUser()
		user2.Username = user1.Username

		err := storage.Create(ctx, user2)
		if err != ErrUsernameExists {
			t.Errorf("Expected ErrUsernameExists, got %v", err)
		}
	})
}

func TestPostgresUserStorage_GetByID(t *testing.T) {
	pool := getTestDBPool(t)
	defer pool.Close()

	storage := NewPostgresUserStorage(pool)
	ctx := context.Background()

	user := newTestUser()
	if err := storage.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("existing user", func(t *testing.T) {
		retrieved, err := storage.GetByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}

		if retrieved.Username != user.Username {
			t.Errorf("Username mismatch: got %v, want %v", retrieved.Username, user.Username)
		}
	})

	t.Run("non-existing user", func(t *testing.T) {
		_, err := storage.GetByID(ctx, uuid.New())
		if err != ErrUserNotFound {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestPostgresUserStorage_Updates(t *testing.T) {
	pool := getTestDBPool(t)
	defer pool.Close()

	storage := NewPostgresUserStorage(pool)
	ctx := context.Background()

	user := newTestUser()
	if err := storage.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := storage.UpdatePassword(ctx, user.ID, "new_hash"); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	if err := storage.SetActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if err := storage.TouchLastLogin(ctx, user.ID); err != nil {
		t.Fatalf("TouchLastLogin() error = %v", err)
	}

	retrieved, err := storage.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if retrieved.PasswordHash != "new_hash" {
		t.Errorf("PasswordHash = %v, want new_hash", retrieved.PasswordHash)
	}
	if retrieved.IsActive {
		t.Error("Expected user to be inactive")
	}
	if retrieved.LastLoginAt == nil {
		t.Error("Expected LastLoginAt to be set")
	}

	if err := storage.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := storage.Delete(ctx, user.ID); err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound on second delete, got %v", err)
	}
	if err := storage.SetActive(ctx, uuid.New(), true); err != ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
