package server

import (
	"container/list"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendinglol/spending/pkg/contribution"
)

// SessionCookie names the cookie that carries the session id.
const SessionCookie = "spending_session"

// DefaultSessionLimit caps the number of live sessions.
const DefaultSessionLimit = 10_000

const sessionMaxAge = 30 * 24 * time.Hour

type session struct {
	id    uuid.UUID
	store *contribution.Store
	seen  time.Time
}

// sessions maps session ids to contribution stores. Stores live in process
// memory and are lost on restart.
//
// A session idle for longer than the cookie lifetime is dropped, and once
// limit sessions are live the least recently seen one makes room for a new
// one. recent is ordered most recently seen first.
type sessions struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*list.Element
	recent  *list.List
	initial contribution.State
	limit   int
	idle    time.Duration
	now     func() time.Time
}

func newSessions(initial contribution.State) *sessions {
	return &sessions{
		byID:    make(map[uuid.UUID]*list.Element),
		recent:  list.New(),
		initial: initial,
		limit:   DefaultSessionLimit,
		idle:    sessionMaxAge,
		now:     time.Now,
	}
}

// store returns the store for the request's session, starting a new session
// (and setting the cookie) when the request has none or an unknown one.
func (s *sessions) store(w http.ResponseWriter, r *http.Request) *contribution.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expire(now)

	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if el, ok := s.byID[id]; ok {
				sess := el.Value.(*session)
				sess.seen = now
				s.recent.MoveToFront(el)
				return sess.store
			}
		}
	}

	for s.limit > 0 && s.recent.Len() >= s.limit {
		s.remove(s.recent.Back())
	}

	sess := &session{
		id:    uuid.New(),
		store: contribution.NewWithState(s.initial),
		seen:  now,
	}
	s.byID[sess.id] = s.recent.PushFront(sess)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id.String(),
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.store
}

// expire drops sessions not seen within the idle window. Callers hold mu.
func (s *sessions) expire(now time.Time) {
	for el := s.recent.Back(); el != nil; el = s.recent.Back() {
		if now.Sub(el.Value.(*session).seen) <= s.idle {
			return
		}
		s.remove(el)
	}
}

func (s *sessions) remove(el *list.Element) {
	sess := s.recent.Remove(el).(*session)
	delete(s.byID, sess.id)
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.Len()
}
