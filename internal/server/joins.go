package server

import (
	"sync"
)

// joinGuard makes sure only one join per user and table reaches the backend
// at a time.
type joinGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func newJoinGuard() *joinGuard {
	return &joinGuard{inflight: make(map[string]struct{})}
}

func (g *joinGuard) Begin(tableID, userID string) bool {
	key := tableID + "|" + userID
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

func (g *joinGuard) Done(tableID, userID string) {
	g.mu.Lock()
	delete(g.inflight, tableID+"|"+userID)
	g.mu.Unlock()
}
