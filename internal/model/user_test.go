package model_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"task-tracker/internal/model"
)

func TestNewUser_HashesPassword(t *testing.T) {
	user, err := model.NewUser("john_doe", "password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Fatalf("expected a bcrypt hash, got %q", user.PasswordHash)
	}
}

func TestUser_Authenticate(t *testing.T) {
	user, err := model.NewUser("john_doe", "password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}

	tests := []struct {
		candidate string
		want      bool
	}{
		{"password123", true},
		{"Password123", false},
		{"password1234", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := user.Authenticate(tt.candidate); got != tt.want {
			t.Errorf("Authenticate(%q) = %v, want %v", tt.candidate, got, tt.want)
		}
	}
}

func TestNewUser_PasswordTooLong(t *testing.T) {
	_, err := model.NewUser("john_doe", strings.Repeat("x", 73), bcrypt.MinCost)
	if !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUser_StringHidesPassword(t *testing.T) {
	user, err := model.NewUser("john_doe", "password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if got := user.String(); got != "User(username=john_doe)" {
		t.Fatalf("String() = %q", got)
	}
}
