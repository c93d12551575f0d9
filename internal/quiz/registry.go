package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"mathadventure/internal/models"
)

// ErrSessionNotFound is returned when a session ID is unknown or expired
var ErrSessionNotFound = errors.New("quiz session not found")

// Session is one active quiz held in memory. Exactly one of Engine or
// Versus is set depending on the mode the session was started in.
type Session struct {
	ID       string
	PlayerID string
	Table    int
	Mode     models.Mode
	Engine   *Engine
	Versus   *Versus

	mu         sync.Mutex
	lastActive time.Time
	report     *ReportOutcome
}

// ReportOutcome carries what happened when a finished quiz was reported:
// whether the table was newly marked learned and which sticker, if any,
// is on offer for the player to claim
type ReportOutcome struct {
	TableLearned bool   `json:"tableLearned"`
	StickerOffer string `json:"stickerOffer,omitempty"`
}

// Touch records activity so the sweep does not reap a live session
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// SetReport stores the reporting outcome for later snapshots
func (s *Session) SetReport(r *ReportOutcome) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// Report returns the stored reporting outcome, or nil if the quiz has not
// finished or was not reported
func (s *Session) Report() *ReportOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Registry tracks active quiz sessions by ID
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session under a fresh ID and returns it
func (r *Registry) Add(session *Session) *Session {
	session.ID = uuid.New().String()
	session.lastActive = time.Now()

	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return session
}

// Get returns the session for the ID if it belongs to the player
func (r *Registry) Get(id, playerID string) (*Session, error) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok || session.PlayerID != playerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove drops a session, quitting any engine still running
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	if session.Engine != nil {
		session.Engine.Quit()
	}
	if session.Versus != nil {
		session.Versus.Quit()
	}
}

// SweepExpired removes sessions idle longer than maxIdle and returns how
// many were reaped. Abandoned engines emit no result, so reaping a stale
// session never writes partial progress.
func (r *Registry) SweepExpired(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff)
		session.mu.Unlock()
		if idle {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range expired {
		if session.Engine != nil {
			session.Engine.Quit()
		}
		if session.Versus != nil {
			session.Versus.Quit()
		}
	}
	return len(expired)
}
