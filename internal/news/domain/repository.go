package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EditableFields is the explicit column list Save persists, so zero
// values (cleared dates, empty text) make it to the database.
var EditableFields = []string{
	"name",
	"description",
	"full_description",
	"event_date",
	"category_id",
	"city_id",
	"date_update",
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, n *News) error
	Get(ctx context.Context, id snowflake.ID) (*News, error)
	List(ctx context.Context) ([]News, error)
	Save(ctx context.Context, n *News) error

	AddPhoto(ctx context.Context, p *Photo) error
	AddFile(ctx context.Context, f *File) error
	AddHashtag(ctx context.Context, h *Hashtag) error

	// TombstonePhotoByPath soft-deletes the live photo with the given
	// path and reports whether one matched.
	TombstonePhotoByPath(ctx context.Context, newsID snowflake.ID, path string, at time.Time) (bool, error)
}
