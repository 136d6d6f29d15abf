package models

import (
	"time"

	"gorm.io/datatypes"

	"eventforms/internal/formfield"
)

// User represents a registered user
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	EmailConfirmed bool      `json:"email_confirmed"`
	ConfirmToken   string    `json:"-" gorm:"index"`
	CanBeStaff     bool      `json:"can_be_staff"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Event is the core event model
type Event struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Title       string      `json:"title" gorm:"not null"`
	Category    string      `json:"category" gorm:"not null"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Date        *time.Time  `json:"date"`
	Place       string      `json:"place"`
	Status      EventStatus `json:"status" gorm:"type:varchar(16);not null;default:'upcoming'"`
	CreatedBy   uint        `json:"created_by" gorm:"index;not null"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

// Form is the registration form attached to an event.
type Form struct {
	ID        uint                                  `json:"id" gorm:"primaryKey"`
	EventID   uint                                  `json:"event_id" gorm:"uniqueIndex;not null"`
	Fields    datatypes.JSONType[[]formfield.Field] `json:"fields"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
}

// Template is a named field list saved from an event's form builder so it
// can be applied to other events.
type Template struct {
	ID        uint                                  `json:"id" gorm:"primaryKey"`
	Name      string                                `json:"name" gorm:"not null"`
	EventID   uint                                  `json:"event_id" gorm:"index;not null"`
	OwnerID   uint                                  `json:"owner_id" gorm:"index;not null"`
	Fields    datatypes.JSONType[[]formfield.Field] `json:"fields"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
}

// Participant is one submitted registration. Answers are keyed by field id.
type Participant struct {
	ID        uint                                  `json:"id" gorm:"primaryKey"`
	EventID   uint                                  `json:"event_id" gorm:"index;not null"`
	Answers   datatypes.JSONType[map[string]string] `json:"answers"`
	CreatedAt time.Time                             `json:"created_at"`
}

// StaffAssignment links a user to an event they help run.
type StaffAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_staff_event_user;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_staff_event_user;not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &Event{}, &Form{}, &Template{}, &Participant{}, &StaffAssignment{}}
}
