package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"eventforms/internal/formfield"
	"eventforms/internal/models"
)

func (r *Repository) GetForm(ctx context.Context, eventID uint) (models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&form).Error; err != nil {
		return form, translate(err)
	}
	return form, nil
}

func (r *Repository) FindFormFields(ctx context.Context, eventID uint) ([]formfield.Field, bool, error) {
	form, err := r.GetForm(ctx, eventID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find form: %w", err)
	}
	return form.Fields.Data(), true, nil
}

func (r *Repository) CreateForm(ctx context.Context, eventID uint, fields []formfield.Field) error {
	form := models.Form{EventID: eventID, Fields: datatypes.NewJSONType(fields)}
	if err := r.db.WithContext(ctx).Create(&form).Error; err != nil {
		return fmt.Errorf("create form: %w", translate(err))
	}
	return nil
}

func (r *Repository) UpdateForm(ctx context.Context, eventID uint, fields []formfield.Field) error {
	res := r.db.WithContext(ctx).Model(&models.Form{}).
		Where("event_id = ?", eventID).
		Update("fields", datatypes.NewJSONType(fields))
	if res.Error != nil {
		return fmt.Errorf("update form: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteForm(ctx context.Context, eventID uint) error {
	res := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&models.Form{})
	if res.Error != nil {
		return fmt.Errorf("delete form: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
