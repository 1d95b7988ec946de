package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// FuzzVerify feeds arbitrary strings to Verify. It must never panic and must
// only ever report ErrMalformed or ErrExpired.
func FuzzVerify(f *testing.F) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	m, err := NewManager(Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		TTL:    15 * time.Minute,
		Now:    clock.Now,
	})
	if err != nil {
		f.Fatalf("NewManager failed: %v", err)
	}

	f.Add("")
	f.Add("abc")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.eyJ1c2VySWQiOiJ1MSJ9.")
	f.Add("!!!not-base64!!!.x.y")
	if token, _, err := m.Issue("u1"); err == nil {
		f.Add(token)
		f.Add(token + "x")
		f.Add(strings.ToUpper(token))
	}

	f.Fuzz(func(t *testing.T, input string) {
		userID, err := m.Verify(input)
		if err != nil {
			if !errors.Is(err, ErrMalformed) && !errors.Is(err, ErrExpired) {
				t.Fatalf("unexpected error class: %v", err)
			}
			if userID != "" {
				t.Fatalf("user id %q returned with error", userID)
			}
			return
		}
		if strings.TrimSpace(userID) == "" {
			t.Fatalf("accepted token without user id")
		}
	})
}
