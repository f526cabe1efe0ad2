package server

import (
	"sync"

	"ai_tutorial_generator/publisher"
)

// sessionState is everything the page needs to remember for one browser.
type sessionState struct {
	RawTopic  string
	Topic     string
	Generated bool
	Running   bool
	Title     string
	Stats     publisher.Stats
	Error     string
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionState
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*sessionState)}
}

// get returns a copy of the session state; unknown ids yield the zero state.
func (s *sessionStore) get(id string) sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		return *st
	}
	return sessionState{}
}

// update applies fn to the session state under the store lock.
func (s *sessionStore) update(id string, fn func(*sessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		st = &sessionState{}
		s.sessions[id] = st
	}
	fn(st)
}

func (s *sessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
