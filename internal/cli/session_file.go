package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amanthanvi/assetvault/internal/session"
)

const sessionFileName = "session.json"

// sessionState is the on-disk form of a login session, the moral successor
// of the original key-value preference flags: {loggedIn, userId, username,
// fullName}. Presence of the file means logged in; logout removes it.
type sessionState struct {
	SessionID string    `json:"session_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	StartedAt time.Time `json:"started_at"`
}

func sessionFilePath(home string) string {
	return filepath.Join(home, sessionFileName)
}

func loadSessionFile(home string) (session.Session, bool, error) {
	data, err := os.ReadFile(sessionFilePath(home))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("read session file: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt session file means logged out, not broken.
		return session.Session{}, false, nil
	}
	if state.SessionID == "" || state.Username == "" {
		return session.Session{}, false, nil
	}

	return session.Session{
		ID:        state.SessionID,
		UserID:    state.UserID,
		Username:  state.Username,
		FullName:  state.FullName,
		StartedAt: state.StartedAt,
	}, true, nil
}

func saveSessionFile(home string, current session.Session) error {
	state := sessionState{
		SessionID: current.ID,
		UserID:    current.UserID,
		Username:  current.Username,
		FullName:  current.FullName,
		StartedAt: current.StartedAt,
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(home, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(sessionFilePath(home), data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func clearSessionFile(home string) error {
	if err := os.Remove(sessionFilePath(home)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
