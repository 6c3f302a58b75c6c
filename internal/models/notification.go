package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationReminder NotificationType = "reminder"
	NotificationAlert    NotificationType = "alert"
	NotificationInfo     NotificationType = "info"
	NotificationWarning  NotificationType = "warning"
)

// Notification is a delivered in-app message. Rows are created by the
// delivery worker consuming notification intents, never through the public
// write surface.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index" validate:"required"`
	Type      NotificationType `json:"type" gorm:"not null;size:20" validate:"required,oneof=reminder alert info warning"`
	Title     string           `json:"title" gorm:"not null;size:255" validate:"required,max=255"`
	Message   string           `json:"message" gorm:"not null;type:text" validate:"required"`
	IsRead    bool             `json:"is_read" gorm:"not null;default:false"`
	SentAt    time.Time        `json:"sent_at" gorm:"autoCreateTime"`
	Metadata  datatypes.JSON   `json:"metadata" gorm:"type:jsonb"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string { return "notifications" }
