// Package domain contains persistence models and contracts for news.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type News struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name            string        `gorm:"type:text;not null" json:"name"`
	Description     string        `gorm:"type:text" json:"description"`
	FullDescription string        `gorm:"type:text;column:full_description" json:"full_description"`
	EventDate       *time.Time    `gorm:"column:event_date" json:"event_date,omitempty"`
	CategoryID      *snowflake.ID `gorm:"column:category_id" json:"category_id,omitempty"`
	CityID          *snowflake.ID `gorm:"column:city_id" json:"city_id,omitempty"`
	DateCreate      time.Time     `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate      time.Time     `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete      *time.Time    `gorm:"column:date_delete" json:"date_delete,omitempty"`

	Photos   []Photo   `gorm:"foreignKey:NewsID" json:"photos,omitempty"`
	Files    []File    `gorm:"foreignKey:NewsID" json:"files,omitempty"`
	Hashtags []Hashtag `gorm:"foreignKey:NewsID" json:"hashtags,omitempty"`
}

func (News) TableName() string { return "news" }

type Photo struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	NewsID     snowflake.ID `gorm:"column:news_id;not null;index" json:"news_id"`
	Path       string       `gorm:"type:text;not null" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Photo) TableName() string { return "news_photos" }

type File struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	NewsID     snowflake.ID `gorm:"column:news_id;not null;index" json:"news_id"`
	Path       string       `gorm:"type:text;not null" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (File) TableName() string { return "news_files" }

type Hashtag struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	NewsID     snowflake.ID `gorm:"column:news_id;not null;index" json:"news_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Hashtag) TableName() string { return "news_hashtags" }

// Aggregate is a news item with resolved reference names.
type Aggregate struct {
	News
	CategoryName string `json:"category_name,omitempty"`
	CityName     string `json:"city_name,omitempty"`
}
