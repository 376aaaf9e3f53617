package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorkit/tutorkit/pkg/config"
)

func newTestManager(maxHistory, tokenBudget int) *Manager {
	return NewManager(&config.SessionConfig{
		MaxHistory:  maxHistory,
		TokenBudget: tokenBudget,
		Encoding:    "cl100k_base",
	})
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(2, 0)
	id := m.Create()
	require.NotEmpty(t, id)

	session, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, session.ID)
	assert.Empty(t, session.Exchanges)

	id2 := m.Create()
	assert.NotEqual(t, id, id2)
	assert.Equal(t, 2, m.Count())
}

func TestHistoryFormat(t *testing.T) {
	m := newTestManager(5, 0)
	id := m.Create()
	m.AddExchange(id, "What is Docker?", "A container runtime.")
	m.AddExchange(id, "And Compose?", "Multi-container tooling.")

	want := "User: What is Docker?\nAssistant: A container runtime.\n" +
		"User: And Compose?\nAssistant: Multi-container tooling."
	assert.Equal(t, want, m.History(id))
}

func TestHistoryBoundedByExchangeCount(t *testing.T) {
	m := newTestManager(2, 0)
	id := m.Create()
	for i := 1; i <= 4; i++ {
		m.AddExchange(id, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := m.History(id)
	assert.NotContains(t, history, "q1")
	assert.NotContains(t, history, "q2")
	assert.Contains(t, history, "q3")
	assert.Contains(t, history, "q4")
}

func TestHistoryTruncatedToTokenBudget(t *testing.T) {
	m := newTestManager(10, 20)
	id := m.Create()
	m.AddExchange(id, "first question with quite a few extra words in it", "a long first answer with plenty of words to count")
	m.AddExchange(id, "short", "reply")

	history := m.History(id)
	assert.NotContains(t, history, "first question")
	assert.Contains(t, history, "short")
}

func TestHistoryUnknownSession(t *testing.T) {
	m := newTestManager(2, 0)
	assert.Equal(t, "", m.History("no-such-id"))
}

func TestAddExchangeCreatesUnknownSession(t *testing.T) {
	m := newTestManager(2, 0)
	m.AddExchange("external-id", "q", "a")

	session, ok := m.Get("external-id")
	require.True(t, ok)
	assert.Len(t, session.Exchanges, 1)
}

func TestDelete(t *testing.T) {
	m := newTestManager(2, 0)
	id := m.Create()
	m.Delete(id)
	_, ok := m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}
