package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type CreateRequest struct {
	Name            string
	Description     string
	FullDescription string
	EventDate       *time.Time
	Category        string
	City            string
	Hashtags        []string
	ImagePaths      []string
}

// UpdateRequest updates fields explicitly; nil means "leave as is".
type UpdateRequest struct {
	Name            *string
	Description     *string
	FullDescription *string
	EventDate       *time.Time
	Category        *string
	City            *string
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Aggregate, error)
	Get(ctx context.Context, id snowflake.ID) (*Aggregate, error)
	List(ctx context.Context) ([]Aggregate, error)
	Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req UpdateRequest) (*Aggregate, error)
	Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error

	AddPhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	RemovePhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddFile(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddHashtag(ctx context.Context, actor identity.Actor, id snowflake.ID, name string) error
}
