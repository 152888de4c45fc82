// Package lifecycle implements the generic soft-delete primitive shared by
// every entity. A row with a non-null date_delete is invisible to normal
// reads and is never physically removed.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store tombstones entities together with their directly owned children.
type Store struct {
	db    *gorm.DB
	clock clock.Clock
	log   *zap.Logger
}

func NewStore(gdb *gorm.DB, clk clock.Clock, log *zap.Logger) *Store {
	return &Store{db: gdb, clock: clk, log: log}
}

// SoftDelete tombstones the row and every live direct child in a single
// transaction. Deleting an already tombstoned row is a no-op success;
// deleting a missing row is a NotFound.
func (s *Store) SoftDelete(ctx context.Context, table string, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.SoftDeleteTx(ctx, tx, table, id)
	})
}

// SoftDeleteTx is SoftDelete inside a caller-owned transaction, so a
// service can combine the cascade with other writes atomically.
func (s *Store) SoftDeleteTx(ctx context.Context, tx *gorm.DB, table string, id snowflake.ID) error {
	now := s.clock.Now()

	res := tx.WithContext(ctx).
		Table(table).
		Where("id = ? AND date_delete IS NULL", id).
		Update("date_delete", now)
	if res.Error != nil {
		return classify(res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
			return classify(err)
		}
		if count == 0 {
			return apperr.NotFound("%s %d not found", table, id)
		}
		// Already tombstoned; the cascade ran when it was.
		return nil
	}

	for _, child := range Graph[table] {
		q := tx.WithContext(ctx).
			Table(child.Table).
			Where(fmt.Sprintf("%s = ?", child.ForeignKey), id).
			Where("date_delete IS NULL")
		for column, value := range child.Scope {
			q = q.Where(fmt.Sprintf("%s = ?", column), value)
		}
		if err := q.Update("date_delete", now).Error; err != nil {
			return classify(err)
		}
	}

	s.log.Info("entity tombstoned",
		zap.String("table", table),
		zap.Int64("id", int64(id)),
		zap.Int("children", len(Graph[table])),
	)
	return nil
}

func classify(err error) error {
	if db.IsSerializationErr(err) {
		return apperr.Retryable(err)
	}
	return err
}
