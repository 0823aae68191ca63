package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSON_PasswordHashHidden(t *testing.T) {
	user := User{Name: "Alice", Email: "alice@example.com", PasswordHash: "$2a$10$examplehash"}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "password_hash") || strings.Contains(body, "$2a$10$examplehash") {
		t.Fatalf("json should not expose the password hash, got: %s", body)
	}
	if !strings.Contains(body, `"email":"alice@example.com"`) {
		t.Fatalf("json should include email, got: %s", body)
	}
}

func TestSessionJSON_NestsUserWithoutHash(t *testing.T) {
	s := Session{
		User:      &User{Name: "Alice", Email: "alice@example.com", PasswordHash: "secret"},
		Token:     "tok",
		ExpiresAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "secret") {
		t.Fatalf("session json leaked password hash: %s", body)
	}
	if !strings.Contains(body, `"expires_at":"2026-01-02T03:04:05Z"`) {
		t.Fatalf("session json missing expiry: %s", body)
	}
}
