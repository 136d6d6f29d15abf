package builder

import (
	"context"
	"sync"
	"time"
)

type sessionKey struct {
	userID  uint
	eventID uint
}

type session struct {
	o        *Orchestrator
	lastUsed time.Time
}

// Sessions keeps one orchestrator per user and event between requests.
// Sessions unused for longer than the idle timeout are dropped, together with
// their unsaved edits. A zero timeout keeps them until closed.
type Sessions struct {
	mu        sync.Mutex
	open      map[sessionKey]*session
	forms     FormStore
	templates TemplateStore
	idle      time.Duration
	lastSweep time.Time
}

func NewSessions(forms FormStore, templates TemplateStore, idle time.Duration) *Sessions {
	return &Sessions{
		open:      make(map[sessionKey]*session),
		forms:     forms,
		templates: templates,
		idle:      idle,
	}
}

// Get returns the caller's orchestrator for event, opening it on first use.
func (s *Sessions) Get(ctx context.Context, userID uint, event Event) (*Orchestrator, error) {
	key := sessionKey{userID: userID, eventID: event.ID}

	s.mu.Lock()
	now := time.Now()
	s.maybeSweep(now)
	if sess, ok := s.open[key]; ok {
		sess.lastUsed = now
		s.mu.Unlock()
		return sess.o, nil
	}
	s.mu.Unlock()

	o, err := Open(ctx, event, s.forms, s.templates)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.open[key]; ok {
		existing.lastUsed = time.Now()
		return existing.o, nil
	}
	s.open[key] = &session{o: o, lastUsed: time.Now()}
	return o, nil
}

// maybeSweep drops idle sessions at most once per half timeout. s.mu must be held.
func (s *Sessions) maybeSweep(now time.Time) {
	if s.idle <= 0 || now.Sub(s.lastSweep) < s.idle/2 {
		return
	}
	s.lastSweep = now
	s.sweep(now.Add(-s.idle))
}

func (s *Sessions) sweep(cutoff time.Time) int {
	n := 0
	for k, sess := range s.open {
		if sess.lastUsed.Before(cutoff) {
			delete(s.open, k)
			n++
		}
	}
	return n
}

// Sweep drops sessions last used before cutoff and returns how many it dropped.
func (s *Sessions) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(cutoff)
}

// Close drops the caller's session so the next Get reloads from the store.
func (s *Sessions) Close(userID, eventID uint) {
	s.mu.Lock()
	delete(s.open, sessionKey{userID: userID, eventID: eventID})
	s.mu.Unlock()
}

// CloseEvent drops every session for an event, e.g. after it was deleted.
func (s *Sessions) CloseEvent(eventID uint) {
	s.mu.Lock()
	for k := range s.open {
		if k.eventID == eventID {
			delete(s.open, k)
		}
	}
	s.mu.Unlock()
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}
