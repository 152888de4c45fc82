package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"github.com/goodenergy/backend/internal/user/domain"
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

func (s *service) Create(ctx context.Context, actor identity.Actor, req domain.CreateRequest) (*domain.User, error) {
	if err := authorizeStaff(actor); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperr.Validation("email cannot be empty")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("user name cannot be empty")
	}
	role := req.Role
	if role == "" {
		role = identity.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role %q", role)
	}

	now := s.clock.Now()
	u := domain.User{
		ID:             s.genID.Generate(),
		Surname:        req.Surname,
		Name:           req.Name,
		Patronymic:     req.Patronymic,
		Email:          email,
		PasswordHash:   req.PasswordHash,
		Role:           role,
		OrganizationID: req.Organization,
		PhotoPath:      req.PhotoPath,
		DateCreate:     now,
		DateUpdate:     now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		if req.City != "" {
			id, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, req.City)
			if err != nil {
				return err
			}
			u.CityID = &id
		}
		return repo.Create(ctx, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *service) Get(ctx context.Context, actor identity.Actor, id snowflake.ID) (*domain.User, error) {
	if !actor.IsStaff() && actor.UserID != id {
		return nil, apperr.Permission("actor may not view user %d", id)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *service) List(ctx context.Context, actor identity.Actor) ([]domain.User, error) {
	if err := authorizeStaff(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, actor identity.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.User, error) {
	if !actor.IsStaff() && actor.UserID != id {
		return nil, apperr.Permission("actor may not edit user %d", id)
	}
	if req.Role != nil && !actor.IsStaff() {
		return nil, apperr.Permission("only staff may change roles")
	}

	var updated *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ref := s.ref.WithTx(tx)

		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Surname != nil {
			u.Surname = *req.Surname
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.Validation("user name cannot be empty")
			}
			u.Name = name
		}
		if req.Patronymic != nil {
			u.Patronymic = *req.Patronymic
		}
		if req.Role != nil {
			if !req.Role.Valid() {
				return apperr.Validation("unknown role %q", *req.Role)
			}
			u.Role = *req.Role
		}
		if req.City != nil {
			cityID, err := ref.ResolveOrCreate(ctx, referencedomain.KindCity, *req.City)
			if err != nil {
				return err
			}
			u.CityID = &cityID
		}
		if req.Organization != nil {
			u.OrganizationID = req.Organization
		}
		if req.PhotoPath != nil {
			u.PhotoPath = *req.PhotoPath
		}

		u.DateUpdate = s.clock.Now()
		updated = u
		return repo.Save(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error {
	if err := authorizeStaff(actor); err != nil {
		return err
	}
	return s.tombstones.SoftDelete(ctx, "users", id)
}

func authorizeStaff(actor identity.Actor) error {
	if !actor.IsStaff() {
		return apperr.Permission("only staff may manage users")
	}
	return nil
}
