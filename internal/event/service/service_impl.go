package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/event/domain"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/metrics"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	ref        referencedomain.Repository
	tombstones *lifecycle.Store
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
		moderation: moderation,
		genID:      genID,
		clock:      clk,
		log:        log,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req domain.CreateRequest) (*domain.Aggregate, error) {
	if err := s.authorizeManage(actor, req.OrganizationID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("event name cannot be empty")
	}

	status := domain.StatusPending
	if req.Status != nil {
		// Administrative import path only.
		if actor.Role != identity.RoleAdmin {
			return nil, apperr.Permission("only admins may create events with an explicit status")
		}
		if !req.Status.Valid() {
			return nil, apperr.Validation("unknown event status %q", *req.Status)
		}
		status = *req.Status
	}

	now := s.clock.Now()
	event := domain.Event{
		ID:                   s.genID.Generate(),
		OrganizationID:       req.OrganizationID,
		Name:                 name,
		StartsAt:             req.StartsAt,
		RegistrationDeadline: req.RegistrationDeadline,
		Description:          req.Description,
		FullDescription:      req.FullDescription,
		Address:              req.Address,
		Capacity:             req.Capacity,
		ModerationStatus:     status,
		DateCreate:           now,
		DateUpdate:           now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if req.Type != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindEventType, req.Type)
			if err != nil {
				return err
			}
			event.TypeID = &id
		}
		if req.Category != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindEventCategory, req.Category)
			if err != nil {
				return err
			}
			event.CategoryID = &id
		}

		if err := repo.Create(ctx, &event); err != nil {
			return err
		}

		for _, tag := range req.Hashtags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if err := repo.AddHashtag(ctx, &domain.Hashtag{
				ID:         s.genID.Generate(),
				EventID:    event.ID,
				Name:       tag,
				DateCreate: now,
				DateUpdate: now,
			}); err != nil {
				return err
			}
		}

		return repo.AddPhotos(ctx, s.buildPhotos(event.ID, req.ImagePaths, now))
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, event.ID)
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	return s.aggregate(ctx, id)
}

func (s *service) List(ctx context.Context, status *domain.ModerationStatus) ([]domain.Aggregate, error) {
	events, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.aggregates(ctx, events), nil
}

func (s *service) ListApproved(ctx context.Context) ([]domain.Aggregate, error) {
	status := domain.StatusApproved
	return s.List(ctx, &status)
}

func (s *service) ListByOrganization(ctx context.Context, actor identity.Actor, orgID snowflake.ID) ([]domain.Aggregate, error) {
	if err := s.authorizeManage(actor, orgID); err != nil {
		return nil, err
	}
	events, err := s.repo.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return s.aggregates(ctx, events), nil
}

// Update mutates event fields. Event edits never degrade moderation
// status; only organizations carry the degrade-on-edit rule.
func (s *service) Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.Aggregate, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		event, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("event name cannot be empty")
			}
			event.Name = name
		}
		if req.StartsAt != nil {
			event.StartsAt = req.StartsAt
		}
		if req.RegistrationDeadline != nil {
			event.RegistrationDeadline = req.RegistrationDeadline
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.FullDescription != nil {
			event.FullDescription = *req.FullDescription
		}
		if req.Address != nil {
			event.Address = *req.Address
		}
		if req.Capacity != nil {
			event.Capacity = req.Capacity
		}
		if req.Type != nil {
			typeID, err := ref.ResolveOrCreate(ctx, referencedomain.KindEventType, *req.Type)
			if err != nil {
				return err
			}
			event.TypeID = &typeID
		}
		if req.Category != nil {
			catID, err := ref.ResolveOrCreate(ctx, referencedomain.KindEventCategory, *req.Category)
			if err != nil {
				return err
			}
			event.CategoryID = &catID
		}

		event.DateUpdate = s.clock.Now()
		return repo.Save(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

func (s *service) Approve(ctx context.Context, actor identity.Actor, id snowflake.ID) (*domain.Aggregate, error) {
	return s.moderate(ctx, actor, id, domain.StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actor identity.Actor, id snowflake.ID, reason string) (*domain.Aggregate, error) {
	return s.moderate(ctx, actor, id, domain.StatusRejected, &reason)
}

func (s *service) moderate(ctx context.Context, actor identity.Actor, id snowflake.ID, to domain.ModerationStatus, reason *string) (*domain.Aggregate, error) {
	if !actor.IsStaff() {
		return nil, apperr.Permission("only staff may moderate events")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		if err := repo.SetModeration(ctx, id, to, reason, s.clock.Now()); err != nil {
			return err
		}
		s.moderation.Observe("event", string(to))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

// ReplaceImages tombstones every live image and inserts the new list in
// one transaction, so readers never observe a half-replaced set.
func (s *service) ReplaceImages(ctx context.Context, actor identity.Actor, id snowflake.ID, paths []string) (*domain.Aggregate, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
			return err
		}

		now := s.clock.Now()
		if _, err := repo.TombstonePhotos(ctx, id, now); err != nil {
			return err
		}
		return repo.AddPhotos(ctx, s.buildPhotos(id, paths, now))
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

func (s *service) RemoveImage(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
		return err
	}

	matched, err := s.repo.TombstonePhotoByPath(ctx, id, path, s.clock.Now())
	if err != nil {
		return err
	}
	if !matched {
		return apperr.NotFound("event %d has no image %q", id, path)
	}
	return nil
}

func (s *service) AddFile(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return apperr.Validation("file path cannot be empty")
	}

	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.AddFile(ctx, &domain.File{
		ID:         s.genID.Generate(),
		EventID:    id,
		Path:       path,
		DateCreate: now,
		DateUpdate: now,
	})
}

func (s *service) AddHashtag(ctx context.Context, actor identity.Actor, id snowflake.ID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("hashtag cannot be empty")
	}

	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.AddHashtag(ctx, &domain.Hashtag{
		ID:         s.genID.Generate(),
		EventID:    id,
		Name:       name,
		DateCreate: now,
		DateUpdate: now,
	})
}

func (s *service) Register(ctx context.Context, actor identity.Actor, id snowflake.ID) (*domain.Participation, error) {
	var created *domain.Participation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
			return apperr.Conflict("registration for event %d is closed", id)
		}

		if _, err := repo.GetParticipation(ctx, id, actor.UserID); err == nil {
			return apperr.Conflict("already registered for event %d", id)
		} else if apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}

		if event.Capacity != nil {
			count, err := repo.CountActiveParticipations(ctx, id)
			if err != nil {
				return err
			}
			if count >= int64(*event.Capacity) {
				return apperr.Conflict("event %d is full", id)
			}
		}

		created = &domain.Participation{
			ID:             s.genID.Generate(),
			EventID:        id,
			OrganizationID: &event.OrganizationID,
			UserID:         actor.UserID,
			Status:         domain.ParticipationPending,
			SubmittedAt:    now,
			DateCreate:     now,
			DateUpdate:     now,
		}
		return repo.CreateParticipation(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) Unregister(ctx context.Context, actor identity.Actor, id snowflake.ID) error {
	p, err := s.repo.GetParticipation(ctx, id, actor.UserID)
	if err != nil {
		return err
	}
	return s.tombstones.SoftDelete(ctx, "event_participations", p.ID)
}

func (s *service) DecideParticipation(ctx context.Context, actor identity.Actor, eventID, userID snowflake.ID, approved bool) (*domain.Participation, error) {
	var decided *domain.Participation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event, err := repo.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
			return err
		}

		p, err := repo.GetParticipation(ctx, eventID, userID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if approved {
			p.Status = domain.ParticipationApproved
		} else {
			p.Status = domain.ParticipationRejected
		}
		p.RepresentativeUserID = &actor.UserID
		p.DecidedAt = &now
		p.DateUpdate = now

		decided = p
		return repo.SaveParticipation(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}

func (s *service) ListParticipations(ctx context.Context, actor identity.Actor, id snowflake.ID) ([]domain.Participation, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
		return nil, err
	}
	return s.repo.ListParticipations(ctx, id)
}

func (s *service) ListRegisteredEvents(ctx context.Context, actor identity.Actor) ([]domain.Aggregate, error) {
	participations, err := s.repo.ListParticipationsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	aggregates := make([]domain.Aggregate, 0, len(participations))
	for _, p := range participations {
		agg, err := s.aggregate(ctx, p.EventID)
		if err != nil {
			// The event itself was tombstoned; drop the dangling row.
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			return nil, err
		}
		aggregates = append(aggregates, *agg)
	}
	return aggregates, nil
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeManage(actor, event.OrganizationID); err != nil {
		return err
	}
	return s.tombstones.SoftDelete(ctx, "events", id)
}

// authorizeManage enforces the event access rule: staff are unrestricted,
// an nko actor only manages events of their own organization.
func (s *service) authorizeManage(actor identity.Actor, orgID snowflake.ID) error {
	if actor.IsStaff() {
		return nil
	}
	if actor.Role == identity.RoleNKO && actor.OwnsOrganization(orgID) {
		return nil
	}
	return apperr.Permission("actor may not manage events of organization %d", orgID)
}

func (s *service) buildPhotos(eventID snowflake.ID, paths []string, now time.Time) []domain.Photo {
	photos := make([]domain.Photo, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		photos = append(photos, domain.Photo{
			ID:         s.genID.Generate(),
			EventID:    eventID,
			Path:       path,
			DateCreate: now,
			DateUpdate: now,
		})
	}
	return photos
}

func (s *service) aggregate(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agg := domain.Aggregate{Event: *event}
	s.resolveNames(ctx, &agg)
	if count, err := s.repo.CountActiveParticipations(ctx, id); err == nil {
		agg.Participants = count
	}
	return &agg, nil
}

func (s *service) aggregates(ctx context.Context, events []domain.Event) []domain.Aggregate {
	list := make([]domain.Aggregate, 0, len(events))
	for _, event := range events {
		agg := domain.Aggregate{Event: event}
		s.resolveNames(ctx, &agg)
		list = append(list, agg)
	}
	return list
}

func (s *service) resolveNames(ctx context.Context, agg *domain.Aggregate) {
	if agg.TypeID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindEventType, *agg.TypeID); err == nil {
			agg.TypeName = name
		}
	}
	if agg.CategoryID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindEventCategory, *agg.CategoryID); err == nil {
			agg.CategoryName = name
		}
	}
}
