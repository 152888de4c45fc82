package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/knowledge/domain"
	"github.com/goodenergy/backend/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) domain.Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *domain.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).
		Preload("Materials", "date_delete IS NULL").
		Where("id = ? AND date_delete IS NULL", id).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("knowledge item %d not found", id)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Where("date_delete IS NULL").
		Order("date_create DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *repository) Save(ctx context.Context, item *domain.Item) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ? AND date_delete IS NULL", item.ID).
		Select(domain.EditableFields).
		Updates(item)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("knowledge item %d not found", item.ID)
	}
	return nil
}

func (r *repository) AddMaterial(ctx context.Context, m *domain.Material) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) IncrementViews(ctx context.Context, id snowflake.ID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ? AND date_delete IS NULL", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("knowledge item %d not found", id)
	}
	return nil
}

func translate(err error) error {
	if db.IsSerializationErr(err) {
		return apperr.Retryable(err)
	}
	return err
}
