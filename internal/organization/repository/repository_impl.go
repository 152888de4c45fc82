package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/organization/domain"
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

func (r *repository) Create(ctx context.Context, org *domain.Organization) error {
	return translate(r.db.WithContext(ctx).Create(org).Error)
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).
		Preload("Photos", "date_delete IS NULL").
		Preload("SocialLinks", "date_delete IS NULL").
		Where("id = ? AND date_delete IS NULL", id).
		Take(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("organization %d not found", id)
		}
		return nil, translate(err)
	}
	return &org, nil
}

func (r *repository) List(ctx context.Context, status *domain.ModerationStatus) ([]domain.Organization, error) {
	q := r.db.WithContext(ctx).Where("date_delete IS NULL")
	if status != nil {
		q = q.Where("moderation_status = ?", *status)
	}

	var orgs []domain.Organization
	if err := q.Order("date_create ASC").Find(&orgs).Error; err != nil {
		return nil, translate(err)
	}
	return orgs, nil
}

func (r *repository) SaveProfile(ctx context.Context, org *domain.Organization) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ? AND date_delete IS NULL", org.ID).
		Select(domain.ProfileFields).
		Updates(org)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("organization %d not found", org.ID)
	}
	return nil
}

func (r *repository) SetModeration(ctx context.Context, id snowflake.ID, status domain.ModerationStatus, reason *string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ? AND date_delete IS NULL", id).
		Updates(map[string]any{
			"moderation_status": status,
			"rejection_reason":  reason,
			"date_update":       now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("organization %d not found", id)
	}
	return nil
}

func (r *repository) SetLogoPath(ctx context.Context, id snowflake.ID, path string, now time.Time) error {
	return r.setPath(ctx, id, "logo_path", path, now)
}

func (r *repository) SetCoverPath(ctx context.Context, id snowflake.ID, path string, now time.Time) error {
	return r.setPath(ctx, id, "cover_path", path, now)
}

func (r *repository) setPath(ctx context.Context, id snowflake.ID, column, path string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Where("id = ? AND date_delete IS NULL", id).
		Updates(map[string]any{column: path, "date_update": now})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("organization %d not found", id)
	}
	return nil
}

func (r *repository) AddPhoto(ctx context.Context, photo *domain.Photo) error {
	return translate(r.db.WithContext(ctx).Create(photo).Error)
}

func (r *repository) AddSocialLink(ctx context.Context, link *domain.SocialLink) error {
	return translate(r.db.WithContext(ctx).Create(link).Error)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if db.IsSerializationErr(err) {
		return apperr.Retryable(err)
	}
	return err
}
