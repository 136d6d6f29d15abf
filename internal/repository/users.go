package repository

import (
	"context"
	"fmt"
	"strings"

	"eventforms/internal/models"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return user, translate(err)
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return user, translate(err)
	}
	return user, nil
}

func (r *Repository) UpdateUserName(ctx context.Context, id uint, name string) error {
	return r.updateUser(ctx, id, map[string]any{"name": name})
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.updateUser(ctx, id, map[string]any{"password_hash": hash})
}

// ConfirmEmail marks the user holding token as confirmed and clears the token.
func (r *Repository) ConfirmEmail(ctx context.Context, token string) (models.User, error) {
	var user models.User
	if token == "" {
		return user, ErrNotFound
	}
	if err := r.db.WithContext(ctx).Where("confirm_token = ?", token).First(&user).Error; err != nil {
		return user, translate(err)
	}
	if err := r.updateUser(ctx, user.ID, map[string]any{"email_confirmed": true, "confirm_token": ""}); err != nil {
		return user, err
	}
	user.EmailConfirmed = true
	user.ConfirmToken = ""
	return user, nil
}

// ToggleCanBeStaff flips whether the user may be assigned as staff and
// returns the new value.
func (r *Repository) ToggleCanBeStaff(ctx context.Context, id uint) (bool, error) {
	user, err := r.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	next := !user.CanBeStaff
	if err := r.updateUser(ctx, id, map[string]any{"can_be_staff": next}); err != nil {
		return false, err
	}
	return next, nil
}

// FindStaffCandidates searches users open to staff work by name or email.
func (r *Repository) FindStaffCandidates(ctx context.Context, query string, limit int) ([]models.User, error) {
	q := r.db.WithContext(ctx).Where("can_be_staff = ?", true)
	if query = strings.ToLower(strings.TrimSpace(query)); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	var users []models.User
	if err := q.Order("email asc").Limit(limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find staff candidates: %w", err)
	}
	return users, nil
}

func (r *Repository) updateUser(ctx context.Context, id uint, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
