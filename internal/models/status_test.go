package models_test

import (
	"errors"
	"testing"

	"eventforms/internal/models"
)

func TestStatusMovesForwardOnly(t *testing.T) {
	if err := models.StatusUpcoming.CanMoveTo(models.StatusInProgress); err != nil {
		t.Fatalf("upcoming -> in_progress: %v", err)
	}
	if err := models.StatusInProgress.CanMoveTo(models.StatusFinished); err != nil {
		t.Fatalf("in_progress -> finished: %v", err)
	}

	bad := [][2]models.EventStatus{
		{models.StatusUpcoming, models.StatusFinished},
		{models.StatusInProgress, models.StatusUpcoming},
		{models.StatusFinished, models.StatusInProgress},
		{models.StatusFinished, models.StatusFinished},
	}
	for _, b := range bad {
		if err := b[0].CanMoveTo(b[1]); !errors.Is(err, models.ErrStatusTransition) {
			t.Fatalf("%s -> %s: expected ErrStatusTransition, got %v", b[0], b[1], err)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !models.StatusFinished.Valid() {
		t.Fatalf("finished should be valid")
	}
	if models.EventStatus("cancelled").Valid() {
		t.Fatalf("cancelled should not be valid")
	}
}
