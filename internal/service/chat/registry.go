package chat

import (
	"sync"

	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"
)

// ErrAlreadyBound is returned when a connection that already represents one
// identity tries to authenticate as another.
var ErrAlreadyBound = errorx.New(errorx.CodeAlreadyBound, constants.MsgAlreadySignedIn)

// Registry maps live connections to identities and back. One identity may
// hold several connections; one connection holds at most one identity.
// Both directions are guarded by a single lock so they never disagree.
type Registry struct {
	mu         sync.RWMutex
	byConn     map[string]uint
	byIdentity map[uint]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn:     make(map[string]uint),
		byIdentity: make(map[uint]map[string]struct{}),
	}
}

// Bind records that connID now represents userID. Binding the same pair
// again is a no-op.
func (r *Registry) Bind(connID string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.byConn[connID]; ok {
		if current == userID {
			return nil
		}
		return ErrAlreadyBound
	}
	r.byConn[connID] = userID
	set, ok := r.byIdentity[userID]
	if !ok {
		set = make(map[string]struct{})
		r.byIdentity[userID] = set
	}
	set[connID] = struct{}{}
	return nil
}

// Unbind removes connID from both maps. Unknown ids are ignored.
func (r *Registry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if set, ok := r.byIdentity[userID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.byIdentity, userID)
		}
	}
}

// IdentityOf returns the identity bound to connID.
func (r *Registry) IdentityOf(connID string) (uint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[connID]
	return userID, ok
}

// ConnectionsFor returns a copy of the live connection ids of userID.
func (r *Registry) ConnectionsFor(userID uint) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byIdentity[userID]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// OnlineCount is the number of identities with at least one connection.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
