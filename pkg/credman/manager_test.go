package credman

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	key := bytes.Repeat([]byte{0x5a}, 32)
	return NewSessionManager(afero.NewMemMapFs(), "/data/session", key)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	want := &Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		UserId:       "user-1",
		Email:        "gardener@example.com",
	}
	if err := sm.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := sm.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Fatalf("loaded %+v, want %+v", got, want)
	}
}

func TestLoadWithoutSession(t *testing.T) {
	sm := newTestManager(t)
	if _, err := sm.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load = %v, want ErrNoSession", err)
	}
}

func TestSessionFileIsOpaque(t *testing.T) {
	fs := afero.NewMemMapFs()
	key := bytes.Repeat([]byte{0x5a}, 32)
	sm := NewSessionManager(fs, "/data/session", key)
	if err := sm.Save(&Session{AccessToken: "super-secret-token"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := afero.ReadFile(fs, "/data/session")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if bytes.Contains(raw, []byte("super-secret-token")) {
		t.Fatal("session file contains the token in the clear")
	}
}

func TestLoadRejectsWrongKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	sm := NewSessionManager(fs, "/data/session", bytes.Repeat([]byte{0x01}, 32))
	if err := sm.Save(&Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	other := NewSessionManager(fs, "/data/session", bytes.Repeat([]byte{0x02}, 32))
	if _, err := other.Load(); err == nil {
		t.Fatal("Load succeeded with the wrong key")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	sm := newTestManager(t)
	if err := sm.Save(&Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := sm.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := sm.Delete(); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := sm.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Load after delete = %v, want ErrNoSession", err)
	}
}
