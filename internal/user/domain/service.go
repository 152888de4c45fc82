package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type CreateRequest struct {
	Surname      string
	Name         string
	Patronymic   string
	Email        string
	PasswordHash string
	Role         identity.Role
	City         string
	Organization *snowflake.ID
	PhotoPath    string
}

// UpdateRequest updates fields explicitly; nil means "leave as is".
// Email is a natural key and not editable here.
type UpdateRequest struct {
	Surname      *string
	Name         *string
	Patronymic   *string
	Role         *identity.Role
	City         *string
	Organization *snowflake.ID
	PhotoPath    *string
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*User, error)
	Get(ctx context.Context, actor identity.Actor, id snowflake.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, actor identity.Actor) ([]User, error)
	Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error
}
