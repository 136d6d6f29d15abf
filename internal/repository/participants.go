package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"eventforms/internal/models"
)

func (r *Repository) AddParticipant(ctx context.Context, eventID uint, answers map[string]string) (models.Participant, error) {
	p := models.Participant{EventID: eventID, Answers: datatypes.NewJSONType(answers)}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return p, fmt.Errorf("add participant: %w", translate(err))
	}
	return p, nil
}

// ListParticipants returns registrations in arrival order. A limit of zero
// returns all of them.
func (r *Repository) ListParticipants(ctx context.Context, eventID uint, limit, offset int) ([]models.Participant, error) {
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var out []models.Participant
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}

func (r *Repository) CountParticipants(ctx context.Context, eventID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Participant{}).Where("event_id = ?", eventID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return n, nil
}
