// Package domain contains persistence models and contracts for users.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type User struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	Surname        string        `gorm:"type:text" json:"surname"`
	Name           string        `gorm:"type:text;not null" json:"name"`
	Patronymic     string        `gorm:"type:text" json:"patronymic"`
	Email          string        `gorm:"type:text;not null" json:"email"`
	PasswordHash   string        `gorm:"type:text;column:password_hash;not null" json:"-"`
	Role           identity.Role `gorm:"type:text;not null" json:"role"`
	CityID         *snowflake.ID `gorm:"column:city_id" json:"city_id,omitempty"`
	OrganizationID *snowflake.ID `gorm:"column:organization_id;index" json:"organization_id,omitempty"`
	PhotoPath      string        `gorm:"type:text;column:photo_path" json:"photo_path,omitempty"`
	DateCreate     time.Time     `gorm:"column:date_create;not null" json:"date_create"`
	DateUpdate     time.Time     `gorm:"column:date_update;not null" json:"date_update"`
	DateDelete     *time.Time    `gorm:"column:date_delete" json:"date_delete,omitempty"`
}

func (User) TableName() string { return "users" }
