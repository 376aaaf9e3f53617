// Package session tracks per-user conversation history. History is
// serialized to a plain-text transcript that rides along in the system
// prompt, bounded both by exchange count and by token budget.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorkit/tutorkit/pkg/config"
)

// Exchange is one completed question and answer pair.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	At       time.Time `json:"at"`
}

// Session holds the recent exchanges of one conversation.
type Session struct {
	ID        string     `json:"id"`
	Exchanges []Exchange `json:"exchanges"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Manager owns all live sessions. Safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxHistory  int
	tokenBudget int
	counter     *tokenCounter
}

// NewManager builds a session manager. Token counting failures fall
// back to exchange-count bounding only.
func NewManager(cfg *config.SessionConfig) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxHistory:  cfg.MaxHistory,
		tokenBudget: cfg.TokenBudget,
		counter:     newTokenCounter(cfg.Encoding),
	}
}

// Create opens a new session and returns its identifier.
func (m *Manager) Create() string {
	id := uuid.NewString()
	now := time.Now()
	m.mu.Lock()
	m.sessions[id] = &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	m.mu.Unlock()
	return id
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// AddExchange records one question and answer pair, discarding the
// oldest exchanges beyond the configured history bound. Unknown
// session ids are created on the fly so callers can bring their own
// identifiers.
func (m *Manager) AddExchange(id, question, answer string) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		session = &Session{ID: id, CreatedAt: now}
		m.sessions[id] = session
	}
	session.Exchanges = append(session.Exchanges, Exchange{Question: question, Answer: answer, At: now})
	if m.maxHistory > 0 && len(session.Exchanges) > m.maxHistory {
		session.Exchanges = session.Exchanges[len(session.Exchanges)-m.maxHistory:]
	}
	session.UpdatedAt = now
}

// History renders the session transcript, oldest first. Exchanges are
// dropped from the front until the transcript fits the token budget.
// Empty string means no usable history.
func (m *Manager) History(id string) string {
	m.mu.RLock()
	session, ok := m.sessions[id]
	if !ok {
		m.mu.RUnlock()
		return ""
	}
	exchanges := make([]Exchange, len(session.Exchanges))
	copy(exchanges, session.Exchanges)
	m.mu.RUnlock()

	for len(exchanges) > 0 {
		transcript := renderTranscript(exchanges)
		if m.tokenBudget <= 0 || m.counter.Count(transcript) <= m.tokenBudget {
			return transcript
		}
		exchanges = exchanges[1:]
	}
	return ""
}

// Delete removes a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func renderTranscript(exchanges []Exchange) string {
	parts := make([]string, 0, len(exchanges))
	for _, e := range exchanges {
		parts = append(parts, fmt.Sprintf("User: %s\nAssistant: %s", e.Question, e.Answer))
	}
	return strings.Join(parts, "\n")
}
