package repository

import (
	"context"
	"fmt"

	"eventforms/internal/models"
)

func (r *Repository) AssignStaff(ctx context.Context, eventID, userID uint) (models.StaffAssignment, error) {
	a := models.StaffAssignment{EventID: eventID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return a, fmt.Errorf("assign staff: %w", translate(err))
	}
	return a, nil
}

func (r *Repository) RemoveStaff(ctx context.Context, eventID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.StaffAssignment{})
	if res.Error != nil {
		return fmt.Errorf("remove staff: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) IsStaff(ctx context.Context, eventID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.StaffAssignment{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check staff: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListStaff(ctx context.Context, eventID uint) ([]models.StaffAssignment, error) {
	var out []models.StaffAssignment
	err := r.db.WithContext(ctx).Preload("User").
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return out, nil
}
