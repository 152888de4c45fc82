package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/news/domain"
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

func (r *repository) Create(ctx context.Context, n *domain.News) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.News, error) {
	var n domain.News
	err := r.db.WithContext(ctx).
		Preload("Photos", "date_delete IS NULL").
		Preload("Files", "date_delete IS NULL").
		Preload("Hashtags", "date_delete IS NULL").
		Where("id = ? AND date_delete IS NULL", id).
		Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("news %d not found", id)
	}
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (r *repository) List(ctx context.Context) ([]domain.News, error) {
	var items []domain.News
	err := r.db.WithContext(ctx).
		Preload("Photos", "date_delete IS NULL").
		Where("date_delete IS NULL").
		Order("date_create DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *repository) Save(ctx context.Context, n *domain.News) error {
	res := r.db.WithContext(ctx).
		Model(&domain.News{}).
		Where("id = ? AND date_delete IS NULL", n.ID).
		Select(domain.EditableFields).
		Updates(n)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("news %d not found", n.ID)
	}
	return nil
}

func (r *repository) AddPhoto(ctx context.Context, p *domain.Photo) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) AddFile(ctx context.Context, f *domain.File) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) AddHashtag(ctx context.Context, h *domain.Hashtag) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *repository) TombstonePhotoByPath(ctx context.Context, newsID snowflake.ID, path string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Photo{}).
		Where("news_id = ? AND path = ? AND date_delete IS NULL", newsID, path).
		Updates(map[string]any{"date_delete": at, "date_update": at})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func translate(err error) error {
	if db.IsSerializationErr(err) {
		return apperr.Retryable(err)
	}
	return err
}
