// Package domain contains persistence models and contracts for the
// organization moderation engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ModerationStatus is the closed review-workflow state of an organization.
type ModerationStatus string

const (
	StatusNotSubmitted ModerationStatus = "not_submitted"
	StatusPending      ModerationStatus = "pending"
	StatusApproved     ModerationStatus = "approved"
	StatusRejected     ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusNotSubmitted, StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Organization is an NGO listing. RejectionReason is only inhabited while
// ModerationStatus is rejected; every transition out of rejected clears it.
type Organization struct {
	ID               snowflake.ID     `gorm:"primaryKey" json:"id"`
	Name             string           `gorm:"type:text;not null" json:"name"`
	ShortName        string           `gorm:"type:text;column:short_name" json:"short_name"`
	Slug             string           `gorm:"type:text;not null" json:"slug"`
	LogoPath         string           `gorm:"type:text;column:logo_path" json:"logo_path"`
	CoverPath        string           `gorm:"type:text;column:cover_path" json:"cover_path"`
	CategoryID       *snowflake.ID    `gorm:"column:category_id" json:"category_id,omitempty"`
	Description      string           `gorm:"type:text" json:"description"`
	FullDescription  string           `gorm:"type:text;column:full_description" json:"full_description"`
	VolunteerRole    string           `gorm:"type:text;column:volunteer_role" json:"volunteer_role"`
	Address          string           `gorm:"type:text" json:"address"`
	Website          string           `gorm:"type:text" json:"website"`
	Phone            string           `gorm:"type:text" json:"phone"`
	FoundedYear      *int             `gorm:"column:founded_year" json:"founded_year,omitempty"`
	Email            string           `gorm:"type:text" json:"email"`
	CityID           *snowflake.ID    `gorm:"column:city_id" json:"city_id,omitempty"`
	ModerationStatus ModerationStatus `gorm:"type:text;column:moderation_status;not null" json:"moderation_status"`
	RejectionReason  *string          `gorm:"type:text;column:rejection_reason" json:"rejection_reason,omitempty"`
	DateCreate       time.Time        `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate       time.Time        `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete       *time.Time       `gorm:"column:date_delete" json:"date_delete,omitempty"`

	Photos      []Photo      `gorm:"foreignKey:OrganizationID" json:"photos,omitempty"`
	SocialLinks []SocialLink `gorm:"foreignKey:OrganizationID" json:"social_links,omitempty"`
}

func (Organization) TableName() string { return "organizations" }

// Photo is a gallery image owned by one organization.
type Photo struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrganizationID snowflake.ID `gorm:"column:organization_id;not null;index" json:"organization_id"`
	Path           string       `gorm:"type:text;not null" json:"path"`
	DateCreate     time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate     time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete     *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Photo) TableName() string { return "organization_photos" }

// SocialLink points at the organization's page on a social network.
type SocialLink struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	OrganizationID    snowflake.ID `gorm:"column:organization_id;not null;index" json:"organization_id"`
	SocialMediaTypeID snowflake.ID `gorm:"column:social_media_type_id;not null" json:"social_media_type_id"`
	Link              string       `gorm:"type:text;not null" json:"link"`
	DateCreate        time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate        time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete        *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (SocialLink) TableName() string { return "organization_social_links" }

// Aggregate is an organization with its live children and resolved
// reference names, assembled for a single read.
type Aggregate struct {
	Organization
	CategoryName string `json:"category_name,omitempty"`
	CityName     string `json:"city_name,omitempty"`
}
