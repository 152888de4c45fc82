// Package domain contains the reference-data kinds resolved by natural key.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind names one reference-data table.
type Kind string

const (
	KindOrganizationCategory Kind = "organization_category"
	KindEventCategory        Kind = "event_category"
	KindNewsCategory         Kind = "news_category"
	KindKnowledgeCategory    Kind = "knowledge_category"
	KindMaterialType         Kind = "material_type"
	KindEventType            Kind = "event_type"
	KindSocialMediaType      Kind = "social_media_type"
	KindCity                 Kind = "city"
)

var kindTables = map[Kind]string{
	KindOrganizationCategory: "organization_categories",
	KindEventCategory:        "event_categories",
	KindNewsCategory:         "news_categories",
	KindKnowledgeCategory:    "knowledge_categories",
	KindMaterialType:         "material_types",
	KindEventType:            "event_types",
	KindSocialMediaType:      "social_media_types",
	KindCity:                 "cities",
}

// Table returns the backing table for the kind, or "" for an unknown kind.
func (k Kind) Table() string { return kindTables[k] }

// Entry is a resolved reference row.
type Entry struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
}

type OrganizationCategory struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (OrganizationCategory) TableName() string { return "organization_categories" }

type EventCategory struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (EventCategory) TableName() string { return "event_categories" }

type NewsCategory struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (NewsCategory) TableName() string { return "news_categories" }

type KnowledgeCategory struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (KnowledgeCategory) TableName() string { return "knowledge_categories" }

type MaterialType struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (MaterialType) TableName() string { return "material_types" }

type EventType struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (EventType) TableName() string { return "event_types" }

type SocialMediaType struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Path       string       `gorm:"type:text" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (SocialMediaType) TableName() string { return "social_media_types" }

type City struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Lat        *float64     `gorm:"column:lat" json:"lat,omitempty"`
	Long       *float64     `gorm:"column:long" json:"long,omitempty"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (City) TableName() string { return "cities" }
