// Package domain contains persistence models and contracts for the
// knowledge base.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Item struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name            string        `gorm:"type:text;not null" json:"name"`
	Description     string        `gorm:"type:text" json:"description"`
	FullDescription string        `gorm:"type:text;column:full_description" json:"full_description"`
	ViewCount       int64         `gorm:"column:view_count;not null;default:0" json:"view_count"`
	VideoURL        string        `gorm:"type:text;column:video_url" json:"video_url"`
	MaterialURL     string        `gorm:"type:text;column:material_url" json:"material_url"`
	CategoryID      *snowflake.ID `gorm:"column:category_id" json:"category_id,omitempty"`
	MaterialTypeID  *snowflake.ID `gorm:"column:material_type_id" json:"material_type_id,omitempty"`
	DateCreate      time.Time     `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate      time.Time     `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete      *time.Time    `gorm:"column:date_delete" json:"date_delete,omitempty"`

	Materials []Material `gorm:"foreignKey:ItemID" json:"materials,omitempty"`
}

func (Item) TableName() string { return "knowledge_items" }

// Material is a named attachment of a knowledge item.
type Material struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ItemID     snowflake.ID `gorm:"column:item_id;not null;index" json:"item_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Path       string       `gorm:"type:text;not null" json:"path"`
	DateCreate time.Time    `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate time.Time    `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete *time.Time   `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (Material) TableName() string { return "knowledge_materials" }

type Aggregate struct {
	Item
	CategoryName     string `json:"category_name,omitempty"`
	MaterialTypeName string `json:"material_type_name,omitempty"`
}
