package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/news/domain"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	ref        referencedomain.Repository
	tombstones *lifecycle.Store
	genID      *snowflake.Node
	clock      clock.Clock
	log        *zap.Logger
}

func NewService(
	gdb *gorm.DB,
	repo domain.Repository,
	ref referencedomain.Repository,
	tombstones *lifecycle.Store,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:         gdb,
		repo:       repo,
		ref:        ref,
		tombstones: tombstones,
		genID:      genID,
		clock:      clk,
		log:        log,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req domain.CreateRequest) (*domain.Aggregate, error) {
	if err := authorizeStaff(actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("news name cannot be empty")
	}

	now := s.clock.Now()
	item := domain.News{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		EventDate:       req.EventDate,
		DateCreate:      now,
		DateUpdate:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if req.Category != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindNewsCategory, req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = &id
		}
		if req.City != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, req.City)
			if err != nil {
				return err
			}
			item.CityID = &id
		}

		if err := repo.Create(ctx, &item); err != nil {
			return err
		}

		for _, tag := range req.Hashtags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if err := repo.AddHashtag(ctx, &domain.Hashtag{
				ID:         s.genID.Generate(),
				NewsID:     item.ID,
				Name:       tag,
				DateCreate: now,
				DateUpdate: now,
			}); err != nil {
				return err
			}
		}
		for _, path := range req.ImagePaths {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if err := repo.AddPhoto(ctx, &domain.Photo{
				ID:         s.genID.Generate(),
				NewsID:     item.ID,
				Path:       path,
				DateCreate: now,
				DateUpdate: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, item.ID)
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	return s.aggregate(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.Aggregate, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]domain.Aggregate, 0, len(items))
	for _, item := range items {
		agg := domain.Aggregate{News: item}
		s.resolveNames(ctx, &agg)
		list = append(list, agg)
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.Aggregate, error) {
	if err := authorizeStaff(actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		item, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("news name cannot be empty")
			}
			item.Name = name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.FullDescription != nil {
			item.FullDescription = *req.FullDescription
		}
		if req.EventDate != nil {
			item.EventDate = req.EventDate
		}
		if req.Category != nil {
			catID, err := ref.ResolveOrCreate(ctx, referencedomain.KindNewsCategory, *req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = &catID
		}
		if req.City != nil {
			cityID, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, *req.City)
			if err != nil {
				return err
			}
			item.CityID = &cityID
		}

		item.DateUpdate = s.clock.Now()
		return repo.Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, id)
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	return s.tombstones.SoftDelete(ctx, "news", id)
}

func (s *service) AddPhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return apperr.Validation("photo path cannot be empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	now := s.clock.Now()
	return s.repo.AddPhoto(ctx, &domain.Photo{
		ID:         s.genID.Generate(),
		NewsID:     id,
		Path:       path,
		DateCreate: now,
		DateUpdate: now,
	})
}

func (s *service) RemovePhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	matched, err := s.repo.TombstonePhotoByPath(ctx, id, path, s.clock.Now())
	if err != nil {
		return err
	}
	if !matched {
		return apperr.NotFound("news %d has no photo %q", id, path)
	}
	return nil
}

func (s *service) AddFile(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return apperr.Validation("file path cannot be empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	now := s.clock.Now()
	return s.repo.AddFile(ctx, &domain.File{
		ID:         s.genID.Generate(),
		NewsID:     id,
		Path:       path,
		DateCreate: now,
		DateUpdate: now,
	})
}

func (s *service) AddHashtag(ctx context.Context, actor identity.Actor, id snowflake.ID, name string) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("hashtag cannot be empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	now := s.clock.Now()
	return s.repo.AddHashtag(ctx, &domain.Hashtag{
		ID:         s.genID.Generate(),
		NewsID:     id,
		Name:       name,
		DateCreate: now,
		DateUpdate: now,
	})
}

func authorizeStaff(actor identity.Actor) error {
	if !actor.IsStaff() {
		return apperr.Permission("only staff may manage news")
	}
	return nil
}

func (s *service) aggregate(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agg := domain.Aggregate{News: *item}
	s.resolveNames(ctx, &agg)
	return &agg, nil
}

func (s *service) resolveNames(ctx context.Context, agg *domain.Aggregate) {
	if agg.CategoryID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindNewsCategory, *agg.CategoryID); err == nil {
			agg.CategoryName = name
		}
	}
	if agg.CityID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindCity, *agg.CityID); err == nil {
			agg.CityName = name
		}
	}
}
