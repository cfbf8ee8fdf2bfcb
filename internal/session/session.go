// ABOUTME: Session store holding the authenticated user and bearer token
// ABOUTME: Persists to a JSON file in the XDG config directory

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/quillnet/quill-cli/internal/client"
)

// State is the synchronous view of the current session. Token is present
// iff Authenticated is true.
type State struct {
	User          client.User
	Token         string
	Authenticated bool
}

// Store owns the session. It is only ever touched from the UI goroutine
// (and the client's unauthorized hook, which merely clears it).
type Store struct {
	configDir string
	state     State
}

type sessionData struct {
	Token string      `json:"token"`
	User  client.User `json:"user"`
}

// New creates a Store rooted at the given config directory and rehydrates
// any persisted session. An absent or malformed file starts unauthenticated.
func New(configDir string) *Store {
	s := &Store{configDir: configDir}
	s.load()
	return s
}

// DefaultConfigDir returns the config directory following the XDG spec.
func DefaultConfigDir() string {
	if dir := os.Getenv("QUILL_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quill")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quill")
}

func (s *Store) sessionFile() string {
	return filepath.Join(s.configDir, "session.json")
}

// load rehydrates session state from disk. Runs once at construction.
func (s *Store) load() {
	data, err := os.ReadFile(s.sessionFile())
	if err != nil {
		return
	}
	var saved sessionData
	if err := json.Unmarshal(data, &saved); err != nil || saved.Token == "" {
		// Malformed or tokenless file: start unauthenticated.
		return
	}
	s.state = State{User: saved.User, Token: saved.Token, Authenticated: true}
}

// Login stores the token and user in memory and on disk. The session is
// considered authenticated from this point until Logout or a 401.
func (s *Store) Login(token string, user client.User) error {
	s.state = State{User: user, Token: token, Authenticated: true}

	if s.configDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sessionData{Token: token, User: user}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.sessionFile(), data, 0600)
}

// Logout clears both in-memory and persisted state. Safe to call when
// already logged out.
func (s *Store) Logout() error {
	s.state = State{}
	err := os.Remove(s.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Current returns the session state synchronously.
func (s *Store) Current() State {
	return s.state
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	return s.state.Token
}
