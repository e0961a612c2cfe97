// Package gate holds the global pause flag. It is explicit, injectable state
// rather than a hidden singleton; admin gating for Set lives in the registry
// service, which checks the gate before any other validation.
package gate

import "sync"

// Gate is the pause switch every mutating registry operation consults first.
type Gate struct {
	mu     sync.RWMutex
	paused bool
}

// New returns an unpaused gate.
func New() *Gate {
	return &Gate{}
}

// Paused reports the current state.
func (g *Gate) Paused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Set flips the flag. Authorization is the caller's responsibility.
func (g *Gate) Set(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = paused
}
