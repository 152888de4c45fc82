package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var EditableFields = []string{
	"surname",
	"name",
	"patronymic",
	"role",
	"city_id",
	"organization_id",
	"photo_path",
	"date_update",
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Save(ctx context.Context, u *User) error
	CountByOrganization(ctx context.Context, orgID snowflake.ID) (int64, error)
}
