package client

import "sync"

// Session is the in-memory authentication state. It is a value; observers
// receive snapshots and never share mutable state with the store.
type Session struct {
	User    *User
	Token   string
	Loading bool
	Err     string
}

// IsAuthenticated holds exactly when both the token and the user are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// SessionStore holds the current session and notifies subscribers on every
// change. Notifications run synchronously on the mutating goroutine, outside
// the store lock.
type SessionStore struct {
	mu      sync.RWMutex
	session Session
	subs    map[int]func(Session)
	nextSub int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]func(Session))}
}

func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn for every subsequent change and returns its
// unsubscribe function.
func (s *SessionStore) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) set(session Session) {
	s.mu.Lock()
	s.session = session
	observers := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(session)
	}
}

func (s *SessionStore) update(mutate func(*Session)) {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	mutate(&session)
	s.set(session)
}
