package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "password123"},
		{name: "empty password", password: ""}, // bcrypt позволяет пустые пароли
		{name: "max length", password: strings.Repeat("a", MaxPasswordLength)},
		{name: "too long", password: strings.Repeat("a", MaxPasswordLength+1), wantErr: ErrPasswordTooLong},
		{name: "unicode password", password: "hasło_żółć"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("HashPassword() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("HashPassword() error = %v", err)
			}
			if !strings.HasPrefix(hash, "$2a$") {
				t.Errorf("HashPassword() hash doesn't look like bcrypt: %s", hash)
			}
			if !CheckPassword(tt.password, hash) {
				t.Error("CheckPassword() failed for freshly generated hash")
			}
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	hash1, err := HashPassword("test123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	hash2, err := HashPassword("test123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// bcrypt использует соль
	if hash1 == hash2 {
		t.Error("HashPassword() produced identical hashes for same password")
	}
}

func TestCheckPassword(t *testing.T) {
	correctPassword := "correct123"
	hash, err := HashPassword(correctPassword)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "correct password", password: correctPassword, hash: hash, want: true},
		{name: "wrong password", password: "wrong123", hash: hash},
		{name: "empty password", password: "", hash: hash},
		{name: "case sensitive", password: "Correct123", hash: hash},
		{name: "invalid hash", password: correctPassword, hash: "invalid-hash"},
		{name: "empty hash", password: correctPassword, hash: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
