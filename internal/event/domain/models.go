// Package domain contains persistence models and contracts for events.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ModerationStatus is the closed review state of an event. Unlike
// organizations there is no not_submitted: every event starts pending.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// ParticipationStatus tracks an attendance application.
type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationApproved ParticipationStatus = "approved"
	ParticipationRejected ParticipationStatus = "rejected"
)

// Event belongs to exactly one organization.
type Event struct {
	ID                   snowflake.ID     `gorm:"primaryKey" json:"id"`
	OrganizationID       snowflake.ID     `gorm:"column:organization_id;not null;index" json:"organization_id"`
	Name                 string           `gorm:"type:text;not null" json:"name"`
	StartsAt             *time.Time       `gorm:"column:starts_at" json:"starts_at,omitempty"`
	RegistrationDeadline *time.Time       `gorm:"column:registration_deadline" json:"registration_deadline,omitempty"`
	Description          string           `gorm:"type:text" json:"description"`
	FullDescription      string           `gorm:"type:text;column:full_description" json:"full_description"`
	Address              string           `gorm:"type:text" json:"address"`
	TypeID               *snowflake.ID    `gorm:"column:type_id" json:"type_id,omitempty"`
	CategoryID           *snowflake.ID    `gorm:"column:category_id" json:"category_id,omitempty"`
	Capacity             *int             `gorm:"column:capacity" json:"capacity,omitempty"`
	ModerationStatus     ModerationStatus `gorm:"type:text;column:moderation_status;not null" json:"moderation_status"`
	RejectionReason      *string          `gorm:"type:text;column:rejection_reason" json:"rejection_reason,omitempty"`
	DateCreate           time.Time        `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate           time.Time        `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete           *time.Time       `gorm:"column:date_delete" json:"date_delete,omitempty"`

	Photos   []Photo   `gorm:"foreignKey:EventID" json:"photos,omitempty"`
	Files    []File    `gorm:"foreignKey:EventID" json:"files,omitempty"`
	Hashtags []Hashtag `gorm:"foreignKey:EventID" json:"hashtags,omitempty"`
}

func (Event) TableName() string { return "events" }

type Photo struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID    snowflake.ID `gorm:"column:event_id;not null;index" json:"event_id"`
	Path       string       `gorm:"type:text;not null" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Photo) TableName() string { return "event_photos" }

type File struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID    snowflake.ID `gorm:"column:event_id;not null;index" json:"event_id"`
	Path       string       `gorm:"type:text;not null" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (File) TableName() string { return "event_files" }

type Hashtag struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	EventID    snowflake.ID `gorm:"column:event_id;not null;index" json:"event_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Hashtag) TableName() string { return "event_hashtags" }

// Participation links a user's attendance application to an event.
type Participation struct {
	ID                   snowflake.ID        `gorm:"primaryKey" json:"id"`
	EventID              snowflake.ID        `gorm:"column:event_id;not null;index" json:"event_id"`
	OrganizationID       *snowflake.ID       `gorm:"column:organization_id" json:"organization_id,omitempty"`
	UserID               snowflake.ID        `gorm:"column:user_id;not null;index" json:"user_id"`
	Status               ParticipationStatus `gorm:"type:text;not null" json:"status"`
	RepresentativeUserID *snowflake.ID       `gorm:"column:representative_user_id" json:"representative_user_id,omitempty"`
	SubmittedAt          time.Time           `gorm:"column:submitted_at;not null" json:"submitted_at"`
	DecidedAt            *time.Time          `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DateCreate           time.Time           `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate           time.Time           `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete           *time.Time          `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Participation) TableName() string { return "event_participations" }

// Aggregate is an event plus live children and resolved reference names.
type Aggregate struct {
	Event
	TypeName     string `json:"type_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Participants int64  `json:"participants"`
}
