package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type CreateRequest struct {
	Name            string
	Description     string
	FullDescription string
	VideoURL        string
	MaterialURL     string
	Category        string
	MaterialType    string
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	FullDescription *string
	VideoURL        *string
	MaterialURL     *string
	Category        *string
	MaterialType    *string
}

type AddMaterialRequest struct {
	Name string
	Path string
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Aggregate, error)
	// Get returns the item and counts the read as a view.
	Get(ctx context.Context, id snowflake.ID) (*Aggregate, error)
	// Describe returns the item without touching the view counter,
	// for surfaces that reference an item rather than open it.
	Describe(ctx context.Context, id snowflake.ID) (*Aggregate, error)
	List(ctx context.Context) ([]Aggregate, error)
	Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req UpdateRequest) (*Aggregate, error)
	Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error

	AddMaterial(ctx context.Context, actor identity.Actor, id snowflake.ID, req AddMaterialRequest) error
}
