package api

import (
	"sync"

	"github.com/efrisio/go-efris-client/efris/mutex"
)

// SessionRegistry holds one SessionManager per TIN so that a process
// serving many companies never runs two handshakes for the same device
// and never mixes their keys.
type SessionRegistry struct {
	locks mutex.Keyed[string]
	table sync.Map // tin -> *SessionManager
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{}
}

// For returns the manager for a TIN, creating it with create on first
// use. Creation is serialized per TIN.
func (r *SessionRegistry) For(tin string, create func() *SessionManager) *SessionManager {
	if v, ok := r.table.Load(tin); ok {
		return v.(*SessionManager)
	}

	r.locks.Lock(tin)
	defer r.locks.Unlock(tin)

	if v, ok := r.table.Load(tin); ok {
		return v.(*SessionManager)
	}
	m := create()
	r.table.Store(tin, m)
	return m
}

// Invalidate drops the cached key for one TIN, if a manager exists.
func (r *SessionRegistry) Invalidate(tin string) {
	if v, ok := r.table.Load(tin); ok {
		v.(*SessionManager).Invalidate()
	}
}
