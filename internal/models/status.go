package models

import "errors"

type EventStatus string

const (
	StatusUpcoming   EventStatus = "upcoming"
	StatusInProgress EventStatus = "in_progress"
	StatusFinished   EventStatus = "finished"
)

var ErrStatusTransition = errors.New("event status can only move forward: upcoming -> in_progress -> finished")

var statusOrder = map[EventStatus]int{
	StatusUpcoming:   0,
	StatusInProgress: 1,
	StatusFinished:   2,
}

func (s EventStatus) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Next returns the status that follows s, or false when s is final.
func (s EventStatus) Next() (EventStatus, bool) {
	switch s {
	case StatusUpcoming:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusFinished, true
	}
	return "", false
}

// CanMoveTo reports whether next is exactly one step after s.
func (s EventStatus) CanMoveTo(next EventStatus) error {
	want, ok := s.Next()
	if !ok || want != next {
		return ErrStatusTransition
	}
	return nil
}
