package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// FindLatest returns the newest row for the membership, active or
	// tombstoned, so Add can decide between conflict, restore and insert.
	FindLatest(ctx context.Context, userID snowflake.ID, targetType TargetType, targetID snowflake.ID) (*Favorite, error)

	Insert(ctx context.Context, f *Favorite) error

	// Restore revives a tombstoned row in place: date_delete cleared,
	// date_create bumped to now, the row id untouched.
	Restore(ctx context.Context, id snowflake.ID, at time.Time) error

	// Tombstone soft-deletes the active membership row and reports
	// whether one matched.
	Tombstone(ctx context.Context, userID snowflake.ID, targetType TargetType, targetID snowflake.ID, at time.Time) (bool, error)

	// ListLive returns the user's active favorites of one type whose
	// targets are themselves still live. Favorites pointing at
	// tombstoned targets are silently skipped.
	ListLive(ctx context.Context, userID snowflake.ID, targetType TargetType) ([]Favorite, error)
}
