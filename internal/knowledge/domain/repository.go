package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var EditableFields = []string{
	"name",
	"description",
	"full_description",
	"video_url",
	"material_url",
	"category_id",
	"material_type_id",
	"date_update",
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id snowflake.ID) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, item *Item) error

	AddMaterial(ctx context.Context, m *Material) error

	// IncrementViews bumps the view counter atomically in SQL, so
	// concurrent readers never lose an increment.
	IncrementViews(ctx context.Context, id snowflake.ID) error
}
