package telegram

import (
	"sync"

	"github.com/vadimtrunov/MovieMate/internal/core"
)

// sessionManager keeps each user's last result list and enforces the
// allow-list.
type sessionManager struct {
	mu      sync.Mutex
	results map[int64][]core.MovieSummary
	allowed map[int64]bool // nil or empty = allow all
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		results: make(map[int64][]core.MovieSummary),
		allowed: allowed,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// setResults replaces the user's selectable list.
func (sm *sessionManager) setResults(userID int64, items []core.MovieSummary) {
	cp := make([]core.MovieSummary, len(items))
	copy(cp, items)

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.results[userID] = cp
}

// selection returns the 1-based n-th item of the user's last list.
func (sm *sessionManager) selection(userID int64, n int) (core.MovieSummary, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	items := sm.results[userID]
	if n < 1 || n > len(items) {
		return core.MovieSummary{}, false
	}
	return items[n-1], true
}

// reset clears a user's session.
func (sm *sessionManager) reset(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.results, userID)
}
