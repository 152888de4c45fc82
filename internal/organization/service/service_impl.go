package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/config"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/metrics"
	"github.com/goodenergy/backend/internal/organization/domain"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	ref        referencedomain.Repository
	tombstones *lifecycle.Store
	reviewCfg  *config.ReviewConfigHolder
	moderation *metrics.Moderation
	genID      *snowflake.Node
	clock      clock.Clock
	log        *zap.Logger
}

func NewService(
	gdb *gorm.DB,
	repo domain.Repository,
	ref referencedomain.Repository,
	tombstones *lifecycle.Store,
	reviewCfg *config.ReviewConfigHolder,
	moderation *metrics.Moderation,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:         gdb,
		repo:       repo,
		ref:        ref,
		tombstones: tombstones,
		reviewCfg:  reviewCfg,
		moderation: moderation,
		genID:      genID,
		clock:      clk,
		log:        log,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req domain.CreateRequest) (*domain.Aggregate, error) {
	if !actor.IsStaff() {
		return nil, apperr.Permission("only staff may register organizations")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("organization name cannot be empty")
	}

	now := s.clock.Now()
	org := domain.Organization{
		ID:               s.genID.Generate(),
		Name:             name,
		ShortName:        strings.TrimSpace(req.ShortName),
		Slug:             slug.Make(name),
		Email:            strings.TrimSpace(req.Email),
		Description:      req.Description,
		ModerationStatus: domain.StatusNotSubmitted,
		DateCreate:       now,
		DateUpdate:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if req.Category != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindOrganizationCategory, req.Category)
			if err != nil {
				return err
			}
			org.CategoryID = &id
		}
		if req.City != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, req.City)
			if err != nil {
				return err
			}
			org.CityID = &id
		}

		return repo.Create(ctx, &org)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, org.ID)
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	return s.aggregate(ctx, id)
}

func (s *service) List(ctx context.Context, actor identity.Actor, status *domain.ModerationStatus) ([]domain.Aggregate, error) {
	if !actor.IsStaff() {
		return nil, apperr.Permission("only staff may list all organizations")
	}
	return s.list(ctx, status)
}

func (s *service) ListApproved(ctx context.Context) ([]domain.Aggregate, error) {
	status := domain.StatusApproved
	return s.list(ctx, &status)
}

func (s *service) list(ctx context.Context, status *domain.ModerationStatus) ([]domain.Aggregate, error) {
	orgs, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	aggregates := make([]domain.Aggregate, 0, len(orgs))
	for _, org := range orgs {
		agg := domain.Aggregate{Organization: org}
		s.resolveNames(ctx, &agg)
		aggregates = append(aggregates, agg)
	}
	return aggregates, nil
}

// UpdateProfile applies explicit field changes. When the owner edits a
// sensitive field, an approved listing degrades to pending and a rejected
// one to not_submitted, so a reviewed profile cannot silently drift.
func (s *service) UpdateProfile(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.Aggregate, error) {
	if err := s.authorizeOwnerOrStaff(actor, id); err != nil {
		return nil, err
	}

	changed := req.Changed()
	if len(changed) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		org, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if err := s.applyProfile(ctx, ref, org, req); err != nil {
			return err
		}
		org.DateUpdate = s.clock.Now()
		if err := repo.SaveProfile(ctx, org); err != nil {
			return err
		}

		if actor.Role != identity.RoleNKO {
			return nil
		}
		policy := s.reviewCfg.Get()
		sensitive := false
		for _, field := range changed {
			if policy.IsSensitive(field) {
				sensitive = true
				break
			}
		}
		if !sensitive {
			return nil
		}

		switch org.ModerationStatus {
		case domain.StatusApproved:
			return s.transition(ctx, repo, "organization", id, domain.StatusPending, nil)
		case domain.StatusRejected:
			return s.transition(ctx, repo, "organization", id, domain.StatusNotSubmitted, nil)
		default:
			// Pending and not_submitted stay put.
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

func (s *service) SubmitForReview(ctx context.Context, actor identity.Actor, id snowflake.ID) (*domain.Aggregate, error) {
	if err := s.authorizeOwner(actor, id); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		org, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		switch org.ModerationStatus {
		case domain.StatusPending:
			return apperr.Conflict("application is already pending review")
		case domain.StatusApproved:
			return apperr.Conflict("organization is already approved; edit the profile to resubmit")
		}

		return s.transition(ctx, repo, "organization", id, domain.StatusPending, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

// Approve is legal from any status and idempotent.
func (s *service) Approve(ctx context.Context, actor identity.Actor, id snowflake.ID) (*domain.Aggregate, error) {
	if !actor.IsStaff() {
		return nil, apperr.Permission("only staff may approve organizations")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		return s.transition(ctx, repo, "organization", id, domain.StatusApproved, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

// Reject is legal from any status. The stored reason may be empty but is
// never null while the organization stays rejected.
func (s *service) Reject(ctx context.Context, actor identity.Actor, id snowflake.ID, reason string) (*domain.Aggregate, error) {
	if !actor.IsStaff() {
		return nil, apperr.Permission("only staff may reject organizations")
	}
	if max := s.reviewCfg.Get().MaxRejectionReasonLen; len(reason) > max {
		return nil, apperr.Validation("rejection reason exceeds %d characters", max)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		return s.transition(ctx, repo, "organization", id, domain.StatusRejected, &reason)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

func (s *service) SetLogo(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := s.authorizeOwnerOrStaff(actor, id); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return apperr.Validation("logo path cannot be empty")
	}
	return s.repo.SetLogoPath(ctx, id, path, s.clock.Now())
}

func (s *service) SetCover(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := s.authorizeOwnerOrStaff(actor, id); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return apperr.Validation("cover path cannot be empty")
	}
	return s.repo.SetCoverPath(ctx, id, path, s.clock.Now())
}

func (s *service) AddPhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := s.authorizeOwnerOrStaff(actor, id); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return apperr.Validation("photo path cannot be empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.AddPhoto(ctx, &domain.Photo{
		ID:             s.genID.Generate(),
		OrganizationID: id,
		Path:           strings.TrimSpace(path),
		DateCreate:     now,
		DateUpdate:     now,
	})
}

func (s *service) AddSocialLink(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.AddSocialLinkRequest) error {
	if err := s.authorizeOwnerOrStaff(actor, id); err != nil {
		return err
	}
	if strings.TrimSpace(req.Link) == "" {
		return apperr.Validation("social link cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		typeID, err := ref.ResolveOrCreate(ctx, referencedomain.KindSocialMediaType, req.SocialMediaType)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		return repo.AddSocialLink(ctx, &domain.SocialLink{
			ID:                s.genID.Generate(),
			OrganizationID:    id,
			SocialMediaTypeID: typeID,
			Link:              strings.TrimSpace(req.Link),
			DateCreate:        now,
			DateUpdate:        now,
		})
	})
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error {
	if !actor.IsStaff() {
		return apperr.Permission("only staff may delete organizations")
	}

	var representatives int64
	if err := s.db.WithContext(ctx).
		Table("users").
		Where("organization_id = ? AND date_delete IS NULL", id).
		Count(&representatives).Error; err == nil && representatives > 0 {
		s.log.Info("deleting organization with representatives",
			zap.Int64("organization_id", int64(id)),
			zap.Int64("representatives", representatives),
		)
	}

	return s.tombstones.SoftDelete(ctx, "organizations", id)
}

func (s *service) transition(ctx context.Context, repo domain.Repository, entity string, id snowflake.ID, to domain.ModerationStatus, reason *string) error {
	if err := repo.SetModeration(ctx, id, to, reason, s.clock.Now()); err != nil {
		return err
	}
	s.moderation.Observe(entity, string(to))
	s.log.Info("moderation transition",
		zap.String("entity", entity),
		zap.Int64("id", int64(id)),
		zap.String("to", string(to)),
	)
	return nil
}

func (s *service) applyProfile(ctx context.Context, ref referencedomain.Repository, org *domain.Organization, req domain.UpdateProfileRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return apperr.Validation("organization name cannot be empty")
		}
		org.Name = name
		org.Slug = slug.Make(name)
	}
	if req.ShortName != nil {
		org.ShortName = strings.TrimSpace(*req.ShortName)
	}
	if req.Description != nil {
		org.Description = *req.Description
	}
	if req.FullDescription != nil {
		org.FullDescription = *req.FullDescription
	}
	if req.VolunteerRole != nil {
		org.VolunteerRole = *req.VolunteerRole
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.Website != nil {
		org.Website = strings.TrimSpace(*req.Website)
	}
	if req.Phone != nil {
		org.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.FoundedYear != nil {
		org.FoundedYear = req.FoundedYear
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.Category != nil {
		id, err := ref.ResolveOrCreate(ctx, referencedomain.KindOrganizationCategory, *req.Category)
		if err != nil {
			return err
		}
		org.CategoryID = &id
	}
	if req.City != nil {
		id, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, *req.City)
		if err != nil {
			return err
		}
		org.CityID = &id
	}
	return nil
}

func (s *service) authorizeOwner(actor identity.Actor, id snowflake.ID) error {
	if actor.Role != identity.RoleNKO {
		return apperr.Permission("only the organization owner may perform this action")
	}
	if !actor.OwnsOrganization(id) {
		return apperr.Permission("actor is not linked to organization %d", id)
	}
	return nil
}

func (s *service) authorizeOwnerOrStaff(actor identity.Actor, id snowflake.ID) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.Role == identity.RoleNKO && actor.OwnsOrganization(id) {
		return nil
	}
	return apperr.Permission("actor may not manage organization %d", id)
}

func (s *service) aggregate(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agg := domain.Aggregate{Organization: *org}
	s.resolveNames(ctx, &agg)
	return &agg, nil
}

// resolveNames fills in reference names; a dangling reference row is left
// blank rather than failing the read.
func (s *service) resolveNames(ctx context.Context, agg *domain.Aggregate) {
	if agg.CategoryID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindOrganizationCategory, *agg.CategoryID); err == nil {
			agg.CategoryName = name
		}
	}
	if agg.CityID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindCity, *agg.CityID); err == nil {
			agg.CityName = name
		}
	}
}
