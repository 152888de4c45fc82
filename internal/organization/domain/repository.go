package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ProfileFields is the explicit set of columns a profile save may touch.
// Moderation columns are deliberately absent; they move only through
// SetModeration.
var ProfileFields = []string{
	"name", "short_name", "slug", "description", "full_description",
	"volunteer_role", "address", "website", "phone", "founded_year",
	"email", "category_id", "city_id", "date_update",
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, org *Organization) error
	// Get returns the active organization with live children preloaded.
	Get(ctx context.Context, id snowflake.ID) (*Organization, error)
	List(ctx context.Context, status *ModerationStatus) ([]Organization, error)

	// SaveProfile persists the ProfileFields columns of org.
	SaveProfile(ctx context.Context, org *Organization) error
	// SetModeration is the single write path for status and reason.
	SetModeration(ctx context.Context, id snowflake.ID, status ModerationStatus, reason *string, now time.Time) error
	SetLogoPath(ctx context.Context, id snowflake.ID, path string, now time.Time) error
	SetCoverPath(ctx context.Context, id snowflake.ID, path string, now time.Time) error

	AddPhoto(ctx context.Context, photo *Photo) error
	AddSocialLink(ctx context.Context, link *SocialLink) error
}
