package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/favorite/domain"
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

func (r *repository) FindLatest(ctx context.Context, userID snowflake.ID, targetType domain.TargetType, targetID snowflake.ID) (*domain.Favorite, error) {
	var f domain.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		// Active row first if one exists, otherwise the newest tombstone.
		Order("date_delete IS NULL DESC, date_update DESC").
		Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("favorite not found")
	}
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *repository) Insert(ctx context.Context, f *domain.Favorite) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return apperr.Conflict("favorite already exists")
		}
		return translate(err)
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id snowflake.ID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("id = ? AND date_delete IS NOT NULL", id).
		Updates(map[string]any{
			"date_delete": nil,
			"date_create": at,
			"date_update": at,
		})
	if res.Error != nil {
		if db.IsDuplicateKeyErr(res.Error) {
			return apperr.Conflict("favorite already exists")
		}
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("favorite %d is not tombstoned", id)
	}
	return nil
}

func (r *repository) Tombstone(ctx context.Context, userID snowflake.ID, targetType domain.TargetType, targetID snowflake.ID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND target_type = ? AND target_id = ? AND date_delete IS NULL", userID, targetType, targetID).
		Updates(map[string]any{"date_delete": at, "date_update": at})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ListLive(ctx context.Context, userID snowflake.ID, targetType domain.TargetType) ([]domain.Favorite, error) {
	join := fmt.Sprintf(
		"JOIN %s t ON t.id = favorites.target_id AND t.date_delete IS NULL",
		targetType.TargetTable(),
	)
	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Joins(join).
		Where("favorites.user_id = ? AND favorites.target_type = ? AND favorites.date_delete IS NULL", userID, targetType).
		Order("favorites.date_create DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, translate(err)
	}
	return favorites, nil
}

func translate(err error) error {
	if db.IsSerializationErr(err) {
		return apperr.Retryable(err)
	}
	return err
}
