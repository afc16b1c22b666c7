package chatbot

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ApptChat/AC-Backend/internal/auth"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Exchange is one transcript entry. Stored as JSONB; typed everywhere else.
type Exchange struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSession struct {
	SessionToken string                        `gorm:"primaryKey" json:"-"`
	UserID       string                        `gorm:"index;not null" json:"-"`
	Transcript   datatypes.JSONSlice[Exchange] `gorm:"type:jsonb;not null;default:'[]'" json:"transcript"`
	ExpiresAt    time.Time                     `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time                     `json:"-"`
	UpdatedAt    time.Time                     `json:"-"`

	User auth.User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ChatSession) TableName() string { return "app_chat.chat_sessions" }

// Appointment is storage shape only. Rows are written by the NLP collaborator
// against the shared database; this service just owns the migration.
type Appointment struct {
	ID                uint      `gorm:"primaryKey"`
	UserID            string    `gorm:"index;not null"`
	ScheduledDatetime time.Time `gorm:"not null"`
	DurationMinutes   int       `gorm:"not null;default:30"`
	Status            string    `gorm:"not null;default:'scheduled';check:status IN ('scheduled','confirmed','cancelled','completed')"`
	ServiceType       string    `gorm:"not null;default:'Consultation'"`
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	User auth.User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
}

func (Appointment) TableName() string { return "app_chat.appointments" }
