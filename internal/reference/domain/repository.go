package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository resolves reference rows by natural key, creating them when
// absent. Concurrent creation of the same new key may leave a duplicate
// row; callers tolerate that rather than block writers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// ResolveOrCreate returns the id of the active row whose name equals
	// the natural key (case-sensitive), inserting one when none exists.
	ResolveOrCreate(ctx context.Context, kind Kind, name string) (snowflake.ID, error)

	// NameOf returns the name of an active reference row.
	NameOf(ctx context.Context, kind Kind, id snowflake.ID) (string, error)

	List(ctx context.Context, kind Kind) ([]Entry, error)
	ListCities(ctx context.Context) ([]City, error)
	ListCitiesWithOrganizations(ctx context.Context) ([]City, error)
}
