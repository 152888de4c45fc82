package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type CreateRequest struct {
	OrganizationID       snowflake.ID
	Name                 string
	StartsAt             *time.Time
	RegistrationDeadline *time.Time
	Description          string
	FullDescription      string
	Address              string
	Type                 string
	Category             string
	Capacity             *int
	Hashtags             []string
	ImagePaths           []string

	// Status is honored only on the administrative import path; every
	// other creation starts pending.
	Status *ModerationStatus
}

// UpdateRequest updates fields explicitly; nil means "leave as is".
// Event edits never degrade moderation status.
type UpdateRequest struct {
	Name                 *string
	StartsAt             *time.Time
	RegistrationDeadline *time.Time
	Description          *string
	FullDescription      *string
	Address              *string
	Type                 *string
	Category             *string
	Capacity             *int
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Aggregate, error)
	Get(ctx context.Context, id snowflake.ID) (*Aggregate, error)
	List(ctx context.Context, status *ModerationStatus) ([]Aggregate, error)
	ListApproved(ctx context.Context) ([]Aggregate, error)
	ListByOrganization(ctx context.Context, actor identity.Actor, orgID snowflake.ID) ([]Aggregate, error)

	Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req UpdateRequest) (*Aggregate, error)
	Approve(ctx context.Context, actor identity.Actor, id snowflake.ID) (*Aggregate, error)
	Reject(ctx context.Context, actor identity.Actor, id snowflake.ID, reason string) (*Aggregate, error)

	// ReplaceImages atomically swaps the event's full image list: no
	// interleaved reader observes a partially replaced set.
	ReplaceImages(ctx context.Context, actor identity.Actor, id snowflake.ID, paths []string) (*Aggregate, error)
	// RemoveImage tombstones a single image addressed by its path.
	RemoveImage(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddFile(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddHashtag(ctx context.Context, actor identity.Actor, id snowflake.ID, name string) error

	Register(ctx context.Context, actor identity.Actor, id snowflake.ID) (*Participation, error)
	Unregister(ctx context.Context, actor identity.Actor, id snowflake.ID) error
	DecideParticipation(ctx context.Context, actor identity.Actor, eventID, userID snowflake.ID, approved bool) (*Participation, error)
	ListParticipations(ctx context.Context, actor identity.Actor, id snowflake.ID) ([]Participation, error)
	ListRegisteredEvents(ctx context.Context, actor identity.Actor) ([]Aggregate, error)

	Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error
}
