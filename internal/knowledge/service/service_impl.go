package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/knowledge/domain"
	"github.com/goodenergy/backend/internal/lifecycle"
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
		return nil, apperr.Validation("knowledge item name cannot be empty")
	}

	now := s.clock.Now()
	item := domain.Item{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		VideoURL:        req.VideoURL,
		MaterialURL:     req.MaterialURL,
		DateCreate:      now,
		DateUpdate:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if req.Category != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindKnowledgeCategory, req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = &id
		}
		if req.MaterialType != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindMaterialType, req.MaterialType)
			if err != nil {
				return err
			}
			item.MaterialTypeID = &id
		}

		return repo.Create(ctx, &item)
	})
	if err != nil {
		return nil, err
	}

	return s.aggregate(ctx, item.ID)
}

// Get counts the read as a view before returning the item. A lost
// increment on a failed read is acceptable; a stale count is not worth
// a transaction here.
func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, id)
}

func (s *service) Describe(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	return s.aggregate(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.Aggregate, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]domain.Aggregate, 0, len(items))
	for _, item := range items {
		agg := domain.Aggregate{Item: item}
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
				return apperr.Validation("knowledge item name cannot be empty")
			}
			item.Name = name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.FullDescription != nil {
			item.FullDescription = *req.FullDescription
		}
		if req.VideoURL != nil {
			item.VideoURL = *req.VideoURL
		}
		if req.MaterialURL != nil {
			item.MaterialURL = *req.MaterialURL
		}
		if req.Category != nil {
			catID, err := ref.ResolveOrCreate(ctx, referencedomain.KindKnowledgeCategory, *req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = &catID
		}
		if req.MaterialType != nil {
			mtID, err := ref.ResolveOrCreate(ctx, referencedomain.KindMaterialType, *req.MaterialType)
			if err != nil {
				return err
			}
			item.MaterialTypeID = &mtID
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
	return s.tombstones.SoftDelete(ctx, "knowledge_items", id)
}

func (s *service) AddMaterial(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.AddMaterialRequest) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	path := strings.TrimSpace(req.Path)
	if name == "" || path == "" {
		return apperr.Validation("material name and path cannot be empty")
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	now := s.clock.Now()
	return s.repo.AddMaterial(ctx, &domain.Material{
		ID:         s.genID.Generate(),
		ItemID:     id,
		Name:       name,
		Path:       path,
		DateCreate: now,
		DateUpdate: now,
	})
}

func authorizeStaff(actor identity.Actor) error {
	if !actor.IsStaff() {
		return apperr.Permission("only staff may manage the knowledge base")
	}
	return nil
}

func (s *service) aggregate(ctx context.Context, id snowflake.ID) (*domain.Aggregate, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	agg := domain.Aggregate{Item: *item}
	s.resolveNames(ctx, &agg)
	return &agg, nil
}

func (s *service) resolveNames(ctx context.Context, agg *domain.Aggregate) {
	if agg.CategoryID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindKnowledgeCategory, *agg.CategoryID); err == nil {
			agg.CategoryName = name
		}
	}
	if agg.MaterialTypeID != nil {
		if name, err := s.ref.NameOf(ctx, referencedomain.KindMaterialType, *agg.MaterialTypeID); err == nil {
			agg.MaterialTypeName = name
		}
	}
}
