// Package session provides SessionProvider implementations: a static
// provider for tests and tooling, and a JWT provider that reads the caller
// identity from request-scoped token claims.
package session

import (
	"context"
	"sync"

	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// StaticProvider holds a fixed session, switchable at runtime. It backs
// tests and single-user tooling where no token flow exists.
type StaticProvider struct {
	mu        sync.RWMutex
	session   simplelessons.Session
	callbacks []func(simplelessons.Session)
}

// NewStatic creates a provider pinned to the given owner. An empty ownerID
// starts the provider unauthenticated.
func NewStatic(ownerID string) *StaticProvider {
	return &StaticProvider{session: simplelessons.Session{OwnerID: ownerID}}
}

func (p *StaticProvider) Init(ctx context.Context) error { return nil }

func (p *StaticProvider) Current(ctx context.Context) (simplelessons.Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.session.OwnerID == "" {
		return simplelessons.Session{}, simplelessons.ErrUnauthenticated
	}
	return p.session, nil
}

func (p *StaticProvider) OnChange(fn func(simplelessons.Session)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// SetSession replaces the current session and notifies OnChange callbacks.
func (p *StaticProvider) SetSession(sess simplelessons.Session) {
	p.mu.Lock()
	p.session = sess
	callbacks := make([]func(simplelessons.Session), len(p.callbacks))
	copy(callbacks, p.callbacks)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(sess)
	}
}

// Clear drops the current session, leaving the provider unauthenticated.
func (p *StaticProvider) Clear() {
	p.SetSession(simplelessons.Session{})
}
