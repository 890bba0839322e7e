// Package credman persists the remote session between daemon restarts. The
// session tokens are sealed with a key held in the OS keyring, so the file
// on disk is useless without the user's login keychain.
package credman

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/plantd/plantd/pkg/credman/encryption"
)

// ErrNoSession is returned by Load when no session has been saved.
var ErrNoSession = errors.New("no saved session")

// Session is the persisted authentication state.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserId       string
	Email        string
}

// SessionManager reads and writes the encrypted session file.
type SessionManager struct {
	fs       afero.Fs
	filePath string
	key      []byte
}

func NewSessionManager(fs afero.Fs, filePath string, key []byte) *SessionManager {
	return &SessionManager{fs: fs, filePath: filePath, key: key}
}

// Save seals the session and writes it to the session file.
func (sm *SessionManager) Save(s *Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("error: failed to encode session: %w", err)
	}
	sealed, err := encryption.EncryptValue(buf.String(), sm.key)
	if err != nil {
		return fmt.Errorf("error: failed to encrypt session: %w", err)
	}
	if err = afero.WriteFile(sm.fs, sm.filePath, sealed, 0o600); err != nil {
		return fmt.Errorf("error: failed to write session file: %w", err)
	}
	return nil
}

// Load reads and opens the session file.
func (sm *SessionManager) Load() (*Session, error) {
	sealed, err := afero.ReadFile(sm.fs, sm.filePath)
	if os.IsNotExist(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("error: failed to read session file: %w", err)
	}
	if len(sealed) == 0 {
		return nil, ErrNoSession
	}
	plain, err := encryption.DecryptValue(sealed, sm.key)
	if err != nil {
		return nil, fmt.Errorf("error: failed to decrypt session: %w", err)
	}
	var s Session
	if err = gob.NewDecoder(bytes.NewReader(plain)).Decode(&s); err != nil {
		return nil, fmt.Errorf("error: failed to decode session: %w", err)
	}
	return &s, nil
}

// Delete removes the session file. Deleting an absent session is not an
// error.
func (sm *SessionManager) Delete() error {
	err := sm.fs.Remove(sm.filePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error: failed to remove session file: %w", err)
	}
	return nil
}
