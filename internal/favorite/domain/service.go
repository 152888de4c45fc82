package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type Service interface {
	// Add puts the target into the actor's favorite set and returns the
	// target's current aggregate view. The target must have a live row:
	// favoriting a missing or tombstoned entity is NotFound. Adding a
	// target that is already present is a Conflict; re-adding a
	// previously removed target restores the original membership row.
	Add(ctx context.Context, actor identity.Actor, targetType TargetType, targetID snowflake.ID) (*Target, error)

	// Remove takes the target out of the set. Removing a target that
	// is not present is NotFound.
	Remove(ctx context.Context, actor identity.Actor, targetType TargetType, targetID snowflake.ID) error

	// List returns the live targets referenced by the actor's active
	// membership rows of one type. Favorites whose target has since
	// been tombstoned are silently skipped.
	List(ctx context.Context, actor identity.Actor, targetType TargetType) ([]Target, error)
}
