package leadform

import (
	"sync"
	"time"

	"github.com/google/uuid"

	pkgleadform "github.com/goliatone/go-leadform/pkg/leadform"
)

type session struct {
	id         string
	controller *pkgleadform.Controller
	lastSeen   time.Time
}

// sessionStore keeps one controller per visitor. Expired sessions are swept
// lazily, at most once per TTL, whenever a session is looked up or created.
type sessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	factory   func(locale string) *pkgleadform.Controller
}

func newSessionStore(ttl time.Duration, now func() time.Time, factory func(string) *pkgleadform.Controller) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      now,
		factory:  factory,
	}
}

// get returns the live session for id and refreshes its idle timer.
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(sess.lastSeen) >= s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

func (s *sessionStore) create(locale string) *session {
	controller := s.factory(locale)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	sess := &session{id: uuid.NewString(), controller: controller, lastSeen: now}
	s.sessions[sess.id] = sess
	return sess
}

func (s *sessionStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
