package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"eventforms/internal/builder"
	"eventforms/internal/formfield"
	"eventforms/internal/models"
)

func toTemplate(m models.Template) builder.Template {
	return builder.Template{
		ID:      m.ID,
		Name:    m.Name,
		EventID: m.EventID,
		OwnerID: m.OwnerID,
		Fields:  m.Fields.Data(),
	}
}

func (r *Repository) FindTemplateByEvent(ctx context.Context, eventID uint) (builder.Template, bool, error) {
	var m models.Template
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("id asc").First(&m).Error
	if errors.Is(translate(err), ErrNotFound) {
		return builder.Template{}, false, nil
	}
	if err != nil {
		return builder.Template{}, false, fmt.Errorf("find template: %w", err)
	}
	return toTemplate(m), true, nil
}

func (r *Repository) CreateTemplate(ctx context.Context, tpl *builder.Template) error {
	m := models.Template{
		Name:    tpl.Name,
		EventID: tpl.EventID,
		OwnerID: tpl.OwnerID,
		Fields:  datatypes.NewJSONType(tpl.Fields),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create template: %w", translate(err))
	}
	tpl.ID = m.ID
	return nil
}

func (r *Repository) ReplaceTemplateFields(ctx context.Context, id uint, name string, fields []formfield.Field) error {
	res := r.db.WithContext(ctx).Model(&models.Template{}).Where("id = ?", id).Updates(map[string]any{
		"name":   name,
		"fields": datatypes.NewJSONType(fields),
	})
	if res.Error != nil {
		return fmt.Errorf("replace template fields: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetTemplate(ctx context.Context, id uint) (builder.Template, error) {
	var m models.Template
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return builder.Template{}, translate(err)
	}
	return toTemplate(m), nil
}

func (r *Repository) ListTemplatesByOwner(ctx context.Context, ownerID uint) ([]builder.Template, error) {
	var rows []models.Template
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	out := make([]builder.Template, 0, len(rows))
	for _, m := range rows {
		out = append(out, toTemplate(m))
	}
	return out, nil
}
