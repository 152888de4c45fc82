package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EditableFields is the explicit set of columns an event update may touch.
// Moderation columns move only through SetModeration.
var EditableFields = []string{
	"name", "starts_at", "registration_deadline", "description",
	"full_description", "address", "type_id", "category_id", "capacity",
	"date_update",
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, event *Event) error
	// Get returns the active event with live children preloaded.
	Get(ctx context.Context, id snowflake.ID) (*Event, error)
	List(ctx context.Context, status *ModerationStatus) ([]Event, error)
	ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]Event, error)

	Save(ctx context.Context, event *Event) error
	SetModeration(ctx context.Context, id snowflake.ID, status ModerationStatus, reason *string, now time.Time) error

	// TombstonePhotos marks every live photo of the event deleted and
	// returns how many it touched.
	TombstonePhotos(ctx context.Context, eventID snowflake.ID, now time.Time) (int64, error)
	// TombstonePhotoByPath soft-deletes one live photo addressed by its
	// path and reports whether a row matched.
	TombstonePhotoByPath(ctx context.Context, eventID snowflake.ID, path string, at time.Time) (bool, error)
	AddPhotos(ctx context.Context, photos []Photo) error
	AddFile(ctx context.Context, file *File) error
	AddHashtag(ctx context.Context, tag *Hashtag) error

	GetParticipation(ctx context.Context, eventID, userID snowflake.ID) (*Participation, error)
	CreateParticipation(ctx context.Context, p *Participation) error
	SaveParticipation(ctx context.Context, p *Participation) error
	CountActiveParticipations(ctx context.Context, eventID snowflake.ID) (int64, error)
	ListParticipations(ctx context.Context, eventID snowflake.ID) ([]Participation, error)
	ListParticipationsByUser(ctx context.Context, userID snowflake.ID) ([]Participation, error)
}
