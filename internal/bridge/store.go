package bridge

import (
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// Store garde les sessions ouvertes en mémoire. Sûr en concurrence.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (s *Store) Add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove retire la session et la ferme.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseAll ferme toutes les sessions (arrêt du serveur).
func (s *Store) CloseAll() {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	for _, sess := range all {
		sess.Close()
	}
}
