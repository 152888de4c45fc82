package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/event/domain"
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

func (r *repository) Create(ctx context.Context, event *domain.Event) error {
	return translate(r.db.WithContext(ctx).Create(event).Error)
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).
		Preload("Photos", "date_delete IS NULL").
		Preload("Files", "date_delete IS NULL").
		Preload("Hashtags", "date_delete IS NULL").
		Where("id = ? AND date_delete IS NULL", id).
		Take(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("event %d not found", id)
		}
		return nil, translate(err)
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, status *domain.ModerationStatus) ([]domain.Event, error) {
	q := r.db.WithContext(ctx).Where("date_delete IS NULL")
	if status != nil {
		q = q.Where("moderation_status = ?", *status)
	}

	var events []domain.Event
	if err := q.Order("date_create ASC").Find(&events).Error; err != nil {
		return nil, translate(err)
	}
	return events, nil
}

func (r *repository) ListByOrganization(ctx context.Context, orgID snowflake.ID) ([]domain.Event, error) {
	var events []domain.Event
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND date_delete IS NULL", orgID).
		Order("date_create ASC").
		Find(&events).Error
	if err != nil {
		return nil, translate(err)
	}
	return events, nil
}

func (r *repository) Save(ctx context.Context, event *domain.Event) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("id = ? AND date_delete IS NULL", event.ID).
		Select(domain.EditableFields).
		Updates(event)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("event %d not found", event.ID)
	}
	return nil
}

func (r *repository) SetModeration(ctx context.Context, id snowflake.ID, status domain.ModerationStatus, reason *string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Event{}).
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
		return apperr.NotFound("event %d not found", id)
	}
	return nil
}

func (r *repository) TombstonePhotos(ctx context.Context, eventID snowflake.ID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Photo{}).
		Where("event_id = ? AND date_delete IS NULL", eventID).
		Update("date_delete", now)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *repository) TombstonePhotoByPath(ctx context.Context, eventID snowflake.ID, path string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Photo{}).
		Where("event_id = ? AND path = ? AND date_delete IS NULL", eventID, path).
		Updates(map[string]any{"date_delete": at, "date_update": at})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AddPhotos(ctx context.Context, photos []domain.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&photos).Error)
}

func (r *repository) AddFile(ctx context.Context, file *domain.File) error {
	return translate(r.db.WithContext(ctx).Create(file).Error)
}

func (r *repository) AddHashtag(ctx context.Context, tag *domain.Hashtag) error {
	return translate(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *repository) GetParticipation(ctx context.Context, eventID, userID snowflake.ID) (*domain.Participation, error) {
	var p domain.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ? AND date_delete IS NULL", eventID, userID).
		Take(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("participation for event %d not found", eventID)
		}
		return nil, translate(err)
	}
	return &p, nil
}

func (r *repository) CreateParticipation(ctx context.Context, p *domain.Participation) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		// The partial unique index on active rows catches two
		// registrations racing past the duplicate pre-check.
		if db.IsDuplicateKeyErr(err) {
			return apperr.Conflict("user %d is already registered for event %d", p.UserID, p.EventID)
		}
		return translate(err)
	}
	return nil
}

func (r *repository) SaveParticipation(ctx context.Context, p *domain.Participation) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *repository) CountActiveParticipations(ctx context.Context, eventID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Participation{}).
		Where("event_id = ? AND date_delete IS NULL", eventID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}

func (r *repository) ListParticipations(ctx context.Context, eventID snowflake.ID) ([]domain.Participation, error) {
	var list []domain.Participation
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND date_delete IS NULL", eventID).
		Order("submitted_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (r *repository) ListParticipationsByUser(ctx context.Context, userID snowflake.ID) ([]domain.Participation, error) {
	var list []domain.Participation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_delete IS NULL", userID).
		Order("submitted_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
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
