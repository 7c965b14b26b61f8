package chat

import (
	"sync"

	"bsu_chat_server/pkg/constants"
	"bsu_chat_server/pkg/errorx"
)

var (
	ErrUnknownRoom      = errorx.New(errorx.CodeUnknownRoom, "Fakültə tapılmadı")
	ErrNotAuthenticated = errorx.New(errorx.CodeNotAuthenticated, "Giriş edilməyib")
)

// RoomRouter tracks which connection sits in which faculty room.
// A connection is in at most one room.
type RoomRouter struct {
	mu       sync.RWMutex
	registry *Registry
	members  map[string]map[string]struct{} // faculty -> conn ids
	roomOf   map[string]string              // conn id -> faculty
}

// NewRoomRouter pre-registers one room per faculty.
func NewRoomRouter(registry *Registry, faculties []string) *RoomRouter {
	members := make(map[string]map[string]struct{}, len(faculties))
	for _, f := range faculties {
		members[f] = make(map[string]struct{})
	}
	return &RoomRouter{
		registry: registry,
		members:  members,
		roomOf:   make(map[string]string),
	}
}

// Join moves connID into faculty, leaving its previous room first.
// Only authenticated connections may join.
func (r *RoomRouter) Join(connID, faculty string) error {
	if _, ok := r.registry.IdentityOf(connID); !ok {
		return ErrNotAuthenticated
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.members[faculty]
	if !ok {
		return ErrUnknownRoom
	}
	r.leaveLocked(connID)
	room[connID] = struct{}{}
	r.roomOf[connID] = faculty
	return nil
}

// Leave removes connID from its current room, if any.
func (r *RoomRouter) Leave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID)
}

func (r *RoomRouter) leaveLocked(connID string) {
	prev, ok := r.roomOf[connID]
	if !ok {
		return
	}
	delete(r.members[prev], connID)
	delete(r.roomOf, connID)
}

// RoomOf returns the room connID is in.
func (r *RoomRouter) RoomOf(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.roomOf[connID]
	return f, ok
}

// IsRoom reports whether faculty names a registered room.
func (r *RoomRouter) IsRoom(faculty string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[faculty]
	return ok
}

// RecipientsExcluding lists the connections joined to faculty whose
// identity is in neither exclusion list. Order is unspecified.
func (r *RoomRouter) RecipientsExcluding(faculty string, blockedByMe, blockingMe []uint) []string {
	excluded := make(map[uint]struct{}, len(blockedByMe)+len(blockingMe))
	for _, id := range blockedByMe {
		excluded[id] = struct{}{}
	}
	for _, id := range blockingMe {
		excluded[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.members[faculty]
	out := make([]string, 0, len(room))
	for connID := range room {
		userID, ok := r.registry.IdentityOf(connID)
		if !ok {
			continue
		}
		if _, skip := excluded[userID]; skip {
			continue
		}
		out = append(out, connID)
	}
	return out
}

// defaultRooms is the fixed faculty list.
func defaultRooms() []string {
	return constants.Faculties
}
