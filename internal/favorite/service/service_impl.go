package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	eventdomain "github.com/goodenergy/backend/internal/event/domain"
	"github.com/goodenergy/backend/internal/favorite/domain"
	"github.com/goodenergy/backend/internal/identity"
	knowledgedomain "github.com/goodenergy/backend/internal/knowledge/domain"
	newsdomain "github.com/goodenergy/backend/internal/news/domain"
	organizationdomain "github.com/goodenergy/backend/internal/organization/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db            *gorm.DB
	repo          domain.Repository
	organizations organizationdomain.Service
	events        eventdomain.Service
	news          newsdomain.Service
	knowledge     knowledgedomain.Service
	genID         *snowflake.Node
	clock         clock.Clock
	log           *zap.Logger
}

func NewService(
	gdb *gorm.DB,
	repo domain.Repository,
	organizations organizationdomain.Service,
	events eventdomain.Service,
	news newsdomain.Service,
	knowledge knowledgedomain.Service,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:            gdb,
		repo:          repo,
		organizations: organizations,
		events:        events,
		news:          news,
		knowledge:     knowledge,
		genID:         genID,
		clock:         clk,
		log:           log,
	}
}

// resolveTarget loads the live aggregate the favorite points at. A
// missing or tombstoned target surfaces as NotFound.
func (s *service) resolveTarget(ctx context.Context, targetType domain.TargetType, targetID snowflake.ID) (*domain.Target, error) {
	target := domain.Target{Type: targetType}
	var err error
	switch targetType {
	case domain.TargetOrganization:
		target.Organization, err = s.organizations.Get(ctx, targetID)
	case domain.TargetEvent:
		target.Event, err = s.events.Get(ctx, targetID)
	case domain.TargetNews:
		target.News, err = s.news.Get(ctx, targetID)
	case domain.TargetKnowledge:
		// Describe, not Get: referencing an item is not a view.
		target.Knowledge, err = s.knowledge.Describe(ctx, targetID)
	default:
		return nil, apperr.Validation("unknown favorite target type %q", targetType)
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

func (s *service) Add(ctx context.Context, actor identity.Actor, targetType domain.TargetType, targetID snowflake.ID) (*domain.Target, error) {
	if !targetType.Valid() {
		return nil, apperr.Validation("unknown favorite target type %q", targetType)
	}

	target, err := s.resolveTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.clock.Now()

		existing, err := repo.FindLatest(ctx, actor.UserID, targetType, targetID)
		switch {
		case err == nil && existing.DateDelete == nil:
			return apperr.Conflict("%s %d is already in favorites", targetType, targetID)

		case err == nil:
			// A previous membership was removed; revive its row so the
			// id stays stable across add/remove/add.
			return repo.Restore(ctx, existing.ID, now)

		case apperr.KindOf(err) == apperr.KindNotFound:
			// A concurrent Add landing first surfaces here as a
			// duplicate-key Conflict from the partial unique index.
			return repo.Insert(ctx, &domain.Favorite{
				ID:         s.genID.Generate(),
				UserID:     actor.UserID,
				TargetType: targetType,
				TargetID:   targetID,
				DateCreate: now,
				DateUpdate: now,
			})

		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *service) Remove(ctx context.Context, actor identity.Actor, targetType domain.TargetType, targetID snowflake.ID) error {
	if !targetType.Valid() {
		return apperr.Validation("unknown favorite target type %q", targetType)
	}
	matched, err := s.repo.Tombstone(ctx, actor.UserID, targetType, targetID, s.clock.Now())
	if err != nil {
		return err
	}
	if !matched {
		return apperr.NotFound("%s %d is not in favorites", targetType, targetID)
	}
	return nil
}

func (s *service) List(ctx context.Context, actor identity.Actor, targetType domain.TargetType) ([]domain.Target, error) {
	if !targetType.Valid() {
		return nil, apperr.Validation("unknown favorite target type %q", targetType)
	}

	favorites, err := s.repo.ListLive(ctx, actor.UserID, targetType)
	if err != nil {
		return nil, err
	}

	targets := make([]domain.Target, 0, len(favorites))
	for _, f := range favorites {
		target, err := s.resolveTarget(ctx, targetType, f.TargetID)
		if apperr.KindOf(err) == apperr.KindNotFound {
			// Target tombstoned between the join and the load.
			continue
		}
		if err != nil {
			return nil, err
		}
		targets = append(targets, *target)
	}
	return targets, nil
}
