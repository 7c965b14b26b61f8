package chat

import (
	"sync"
	"time"
)

// messageLog is the ordered history of one room or one pair.
type messageLog struct {
	mu    sync.Mutex
	items []Message
}

func (l *messageLog) snapshot() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.items))
	copy(out, l.items)
	return out
}

// prune keeps messages younger than window and reports how many were
// removed and whether the log is now empty.
func (l *messageLog) prune(now time.Time, window time.Duration) (removed int, empty bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0:0]
	for _, m := range l.items {
		if now.Sub(m.Timestamp) < window {
			kept = append(kept, m)
		}
	}
	removed = len(l.items) - len(kept)
	if removed > 0 {
		l.items = kept
	}
	return removed, len(l.items) == 0
}

// MessageStore holds the in-memory group and private histories.
// Each key has its own lock, so work on different rooms or pairs does not
// contend. Group rooms are fixed at construction; private logs are created
// on first append and dropped once the sweeper empties them.
type MessageStore struct {
	groups map[string]*messageLog // read-only after construction

	mu       sync.RWMutex
	privates map[string]*messageLog
}

// NewMessageStore registers an empty log for every room.
func NewMessageStore(rooms []string) *MessageStore {
	groups := make(map[string]*messageLog, len(rooms))
	for _, r := range rooms {
		groups[r] = &messageLog{}
	}
	return &MessageStore{
		groups:   groups,
		privates: make(map[string]*messageLog),
	}
}

// AppendGroup stores msg in faculty's log and then calls deliver, still
// holding the room lock, so pushes leave in store order.
func (s *MessageStore) AppendGroup(faculty string, msg Message, deliver func(Message)) error {
	log, ok := s.groups[faculty]
	if !ok {
		return ErrUnknownRoom
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	log.items = append(log.items, msg)
	if deliver != nil {
		deliver(msg)
	}
	return nil
}

// AppendPrivate stores msg under pairKey, creating the log if needed, then
// calls deliver under the pair lock.
func (s *MessageStore) AppendPrivate(pairKey string, msg Message, deliver func(Message)) {
	for {
		// The read lock stays held across the append so the sweeper cannot
		// drop the log between lookup and append.
		s.mu.RLock()
		if log, ok := s.privates[pairKey]; ok {
			log.mu.Lock()
			log.items = append(log.items, msg)
			if deliver != nil {
				deliver(msg)
			}
			log.mu.Unlock()
			s.mu.RUnlock()
			return
		}
		s.mu.RUnlock()

		s.mu.Lock()
		if _, ok := s.privates[pairKey]; !ok {
			s.privates[pairKey] = &messageLog{}
		}
		s.mu.Unlock()
	}
}

// GroupMessages returns a copy of faculty's history, oldest first.
func (s *MessageStore) GroupMessages(faculty string) ([]Message, error) {
	log, ok := s.groups[faculty]
	if !ok {
		return nil, ErrUnknownRoom
	}
	return log.snapshot(), nil
}

// ViewGroup calls fn with a copy of faculty's history while holding the
// room lock: no message can be appended to the room until fn returns.
func (s *MessageStore) ViewGroup(faculty string, fn func(history []Message) error) error {
	log, ok := s.groups[faculty]
	if !ok {
		return ErrUnknownRoom
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	history := make([]Message, len(log.items))
	copy(history, log.items)
	return fn(history)
}

// PrivateMessages returns a copy of the pair's history, empty if none.
func (s *MessageStore) PrivateMessages(pairKey string) []Message {
	s.mu.RLock()
	log, ok := s.privates[pairKey]
	s.mu.RUnlock()
	if !ok {
		return []Message{}
	}
	return log.snapshot()
}

// PruneGroups drops group messages older than window.
func (s *MessageStore) PruneGroups(now time.Time, window time.Duration) int {
	total := 0
	for _, log := range s.groups {
		n, _ := log.prune(now, window)
		total += n
	}
	return total
}

// PrunePrivates drops private messages older than window and forgets
// pairs left without messages.
func (s *MessageStore) PrunePrivates(now time.Time, window time.Duration) int {
	total := 0
	var emptied []string

	s.mu.RLock()
	for key, log := range s.privates {
		n, empty := log.prune(now, window)
		total += n
		if empty {
			emptied = append(emptied, key)
		}
	}
	s.mu.RUnlock()

	if len(emptied) == 0 {
		return total
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range emptied {
		log, ok := s.privates[key]
		if !ok {
			continue
		}
		log.mu.Lock()
		empty := len(log.items) == 0
		log.mu.Unlock()
		if empty {
			delete(s.privates, key)
		}
	}
	return total
}

// PrivateCount is the number of live private logs.
func (s *MessageStore) PrivateCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.privates)
}
