package core

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle state of a Session.
type SessionState int

const (
	// StateEmpty means nothing has been loaded yet.
	StateEmpty SessionState = iota
	// StateLoaded means a table is held. Further loads replace it.
	StateLoaded
)

func (s SessionState) String() string {
	if s == StateLoaded {
		return "loaded"
	}
	return "empty"
}

// Session holds the table loaded by one user. It is owned by the interaction
// shell and passed to each handler; there is no package-level session.
//
// A failed load leaves the session exactly as it was.
type Session struct {
	ID string

	mu       sync.RWMutex
	table    *Table
	fileName string
	loadedAt time.Time
	lastSeen time.Time
}

// NewSession creates an empty session with a random ID.
func NewSession() *Session {
	return &Session{
		ID:       uuid.NewString(),
		lastSeen: time.Now(),
	}
}

// State returns StateLoaded once a table has been loaded.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return StateEmpty
	}
	return StateLoaded
}

// Table returns the held table, or nil in StateEmpty.
func (s *Session) Table() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// FileName returns the name of the file behind the held table.
func (s *Session) FileName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fileName
}

// LoadedAt returns when the held table was loaded.
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Load parses data and, on success, replaces the held table.
// On failure the *LoadError is returned and the session is unchanged.
func (s *Session) Load(data []byte, fileName string) error {
	t, err := Load(data, fileName)
	return s.replace(t, fileName, err)
}

// LoadReader is Load for a stream, reading at most limit bytes.
func (s *Session) LoadReader(r io.Reader, fileName string, limit int64) error {
	t, err := LoadReader(r, fileName, limit)
	return s.replace(t, fileName, err)
}

func (s *Session) replace(t *Table, fileName string, err error) error {
	logger := slog.With("session_id", s.ID, "file", fileName)
	if err != nil {
		logger.Warn("load failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.table = t
	s.fileName = fileName
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Info("table loaded", "rows", t.Len(), "columns", len(t.Columns))
	return nil
}

// Search runs Search against the held table.
// In StateEmpty it returns a *QueryError wrapping ErrNoTable.
func (s *Session) Search(column, text string) (SearchResult, error) {
	return Search(s.Table(), column, text)
}

// Clear drops the held table and returns the session to StateEmpty.
func (s *Session) Clear() {
	s.mu.Lock()
	s.table = nil
	s.fileName = ""
	s.loadedAt = time.Time{}
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.Sub(s.lastSeen)
}
