package simulation

import (
	"sort"
	"sync"

	"shopsim/domain"
)

// SessionStore guards the id -> session map. Sessions themselves are only
// mutated under the store lock via With, so two requests racing on the same id
// serialize instead of corrupting state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*domain.Session)}
}

// WithOrCreate runs fn on the session for id, first storing the session
// returned by create when the id is new. Both callbacks run under the store
// lock, so first contact and resume on the same id cannot race.
func (s *SessionStore) WithOrCreate(id string, create func() (*domain.Session, error), fn func(sess *domain.Session, created bool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		fresh, err := create()
		if err != nil {
			return err
		}
		s.sessions[id] = fresh
		sess = fresh
	}
	return fn(sess, !ok)
}

// With runs fn while holding the store lock, giving it exclusive access to the
// session. Returns ErrSessionNotFound for unknown ids.
func (s *SessionStore) With(id string, fn func(*domain.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	return fn(sess)
}

// Snapshot returns the flat projection of a session.
func (s *SessionStore) Snapshot(id string) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return snapshotOf(sess), nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Delete removes a session. Removing an unknown id is a no-op.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func snapshotOf(sess *domain.Session) domain.SessionSnapshot {
	visited := make([]string, 0, len(sess.Visited))
	for asin := range sess.Visited {
		visited = append(visited, asin)
	}
	sort.Strings(visited)

	options := make(map[string]string, len(sess.Options))
	for k, v := range sess.Options {
		options[k] = v
	}
	actions := make(map[string]int, len(sess.Actions))
	for k, v := range sess.Actions {
		actions[k] = v
	}

	snap := domain.SessionSnapshot{
		ID:        sess.ID,
		GoalIndex: sess.GoalIndex,
		Page:      sess.Page,
		Keywords:  append([]string(nil), sess.Keywords...),
		PageNum:   sess.PageNum,
		Asin:      sess.Asin,
		SubPage:   sess.SubPage,
		Visited:   visited,
		Options:   options,
		Actions:   actions,
		Done:      sess.Done,
		Reward:    sess.Reward,
	}
	if sess.Goal != nil {
		snap.GoalAsin = sess.Goal.Asin
		snap.Instruction = sess.Goal.InstructionText
	}
	if sess.Breakdown != nil {
		breakdown := *sess.Breakdown
		snap.Breakdown = &breakdown
	}
	return snap
}
