package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"eventforms/internal/models"
)

func (r *Repository) CreateEvent(ctx context.Context, ev *models.Event) error {
	if ev.Status == "" {
		ev.Status = models.StatusUpcoming
	}
	if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
		return fmt.Errorf("create event: %w", translate(err))
	}
	return nil
}

func (r *Repository) GetEvent(ctx context.Context, id uint) (models.Event, error) {
	var ev models.Event
	if err := r.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		return ev, translate(err)
	}
	return ev, nil
}

// ListEventsForUser returns events the user created or staffs, newest first.
func (r *Repository) ListEventsForUser(ctx context.Context, userID uint) ([]models.Event, error) {
	staffed := r.db.Model(&models.StaffAssignment{}).Select("event_id").Where("user_id = ?", userID)

	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Or("id IN (?)", staffed).
		Order("created_at desc").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// UpdateEvent saves the editable columns of ev.
func (r *Repository) UpdateEvent(ctx context.Context, ev *models.Event) error {
	res := r.db.WithContext(ctx).Model(ev).
		Select("title", "category", "description", "image", "date", "place").
		Updates(ev)
	if res.Error != nil {
		return fmt.Errorf("update event: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEventStatus moves an event from one status to the next. It fails
// with ErrNotFound when the event is no longer in status from.
func (r *Repository) UpdateEventStatus(ctx context.Context, id uint, from, to models.EventStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update event status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEvent removes an event together with its form, participants and
// staff links.
func (r *Repository) DeleteEvent(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.StaffAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.Form{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete event: %w", translate(err))
	}
	return nil
}
