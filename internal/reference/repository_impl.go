package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/reference/domain"
	"github.com/goodenergy/backend/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock clock.Clock
}

func NewRepository(gdb *gorm.DB, genID *snowflake.Node, clk clock.Clock) domain.Repository {
	return &repository{db: gdb, genID: genID, clock: clk}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx, genID: r.genID, clock: r.clock}
}

func (r *repository) ResolveOrCreate(ctx context.Context, kind domain.Kind, name string) (snowflake.ID, error) {
	table := kind.Table()
	if table == "" {
		return 0, apperr.Validation("unknown reference kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("%s name cannot be empty", kind)
	}

	if id, err := r.lookup(ctx, table, name); err == nil {
		return id, nil
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return 0, err
	}

	now := r.clock.Now()
	id := r.genID.Generate()
	err := r.db.WithContext(ctx).Exec(
		fmt.Sprintf(`INSERT INTO %s (id, name, date_create, date_update) VALUES (?, ?, ?, ?)`, table),
		id, name, now, now,
	).Error
	if err != nil {
		// Concurrent creation of the same key: reuse whichever row won.
		if db.IsDuplicateKeyErr(err) {
			return r.lookup(ctx, table, name)
		}
		if db.IsSerializationErr(err) {
			return 0, apperr.Retryable(err)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) lookup(ctx context.Context, table, name string) (snowflake.ID, error) {
	var row struct {
		ID snowflake.ID `gorm:"column:id"`
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("id").
		Where("name = ? AND date_delete IS NULL", name).
		Order("id ASC").
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apperr.NotFound("%s %q not found", table, name)
		}
		return 0, err
	}
	return row.ID, nil
}

func (r *repository) NameOf(ctx context.Context, kind domain.Kind, id snowflake.ID) (string, error) {
	table := kind.Table()
	if table == "" {
		return "", apperr.Validation("unknown reference kind %q", kind)
	}

	var row struct {
		Name string `gorm:"column:name"`
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("name").
		Where("id = ? AND date_delete IS NULL", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", apperr.NotFound("%s %d not found", table, id)
		}
		return "", err
	}
	return row.Name, nil
}

func (r *repository) List(ctx context.Context, kind domain.Kind) ([]domain.Entry, error) {
	table := kind.Table()
	if table == "" {
		return nil, apperr.Validation("unknown reference kind %q", kind)
	}

	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Table(table).
		Select("id, name").
		Where("date_delete IS NULL").
		Order("name ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListCities(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	err := r.db.WithContext(ctx).
		Where("date_delete IS NULL").
		Order("name ASC").
		Find(&cities).Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *repository) ListCitiesWithOrganizations(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT c.* FROM cities c
		 JOIN organizations o ON o.city_id = c.id AND o.date_delete IS NULL
		 WHERE c.date_delete IS NULL
		 ORDER BY c.name ASC`).
		Scan(&cities).Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}
