package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*Store, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE organizations (id INTEGER PRIMARY KEY, date_delete DATETIME)`,
		`CREATE TABLE organization_photos (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE organization_social_links (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE events (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE event_photos (id INTEGER PRIMARY KEY, event_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE event_files (id INTEGER PRIMARY KEY, event_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE event_hashtags (id INTEGER PRIMARY KEY, event_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE event_participations (id INTEGER PRIMARY KEY, event_id INTEGER, organization_id INTEGER, user_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE news (id INTEGER PRIMARY KEY, date_delete DATETIME)`,
		`CREATE TABLE news_photos (id INTEGER PRIMARY KEY, news_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE news_files (id INTEGER PRIMARY KEY, news_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE news_hashtags (id INTEGER PRIMARY KEY, news_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE knowledge_items (id INTEGER PRIMARY KEY, date_delete DATETIME)`,
		`CREATE TABLE knowledge_materials (id INTEGER PRIMARY KEY, item_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE favorites (id INTEGER PRIMARY KEY, user_id INTEGER, target_type TEXT, target_id INTEGER, date_delete DATETIME)`,
	} {
		require.NoError(t, gdb.Exec(stmt).Error)
	}

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return NewStore(gdb, clk, zaptest.NewLogger(t)), gdb, clk
}

func countTombstoned(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Table(table).Where("date_delete IS NOT NULL").Count(&n).Error)
	return n
}

func TestSoftDeleteCascadesOneLevel(t *testing.T) {
	store, gdb, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, gdb.Exec(`INSERT INTO organizations (id) VALUES (1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO organization_photos (id, organization_id) VALUES (10, 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO events (id, organization_id) VALUES (20, 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO event_photos (id, event_id) VALUES (30, 20)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO users (id, organization_id) VALUES (40, 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO favorites (id, user_id, target_type, target_id) VALUES (50, 40, 'organization', 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO favorites (id, user_id, target_type, target_id) VALUES (51, 40, 'event', 20)`).Error)

	require.NoError(t, store.SoftDelete(ctx, "organizations", 1))

	assert.EqualValues(t, 1, countTombstoned(t, gdb, "organizations"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "organization_photos"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "events"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "users"))

	// The cascade stops at direct children: the event's own photo and
	// the favorite pointing at the event stay live.
	assert.EqualValues(t, 0, countTombstoned(t, gdb, "event_photos"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "favorites"))
}

func TestSoftDeleteEventTombstonesItsChildren(t *testing.T) {
	store, gdb, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, gdb.Exec(`INSERT INTO events (id, organization_id) VALUES (1, 9)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO event_photos (id, event_id) VALUES (2, 1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO event_participations (id, event_id, user_id) VALUES (3, 1, 7)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO favorites (id, user_id, target_type, target_id) VALUES (4, 7, 'event', 1)`).Error)

	require.NoError(t, store.SoftDelete(ctx, "events", 1))

	assert.EqualValues(t, 1, countTombstoned(t, gdb, "events"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "event_photos"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "event_participations"))
	assert.EqualValues(t, 1, countTombstoned(t, gdb, "favorites"))
}

func TestSoftDeleteMissingRowIsNotFound(t *testing.T) {
	store, _, _ := setupStore(t)

	err := store.SoftDelete(context.Background(), "organizations", 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSoftDeleteAlreadyTombstonedIsNoOp(t *testing.T) {
	store, gdb, clk := setupStore(t)
	ctx := context.Background()

	require.NoError(t, gdb.Exec(`INSERT INTO organizations (id) VALUES (1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO organization_photos (id, organization_id) VALUES (2, 1)`).Error)

	require.NoError(t, store.SoftDelete(ctx, "organizations", 1))

	var first time.Time
	require.NoError(t, gdb.Table("organizations").Where("id = 1").Pluck("date_delete", &first).Error)

	clk.Advance(time.Hour)
	require.NoError(t, store.SoftDelete(ctx, "organizations", 1))

	var second time.Time
	require.NoError(t, gdb.Table("organizations").Where("id = 1").Pluck("date_delete", &second).Error)
	assert.Equal(t, first, second, "repeat delete must not move the tombstone")
}

func TestSoftDeleteSkipsTombstonedChildren(t *testing.T) {
	store, gdb, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, gdb.Exec(`INSERT INTO news (id) VALUES (1)`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO news_photos (id, news_id, date_delete) VALUES (2, 1, '2026-01-01 00:00:00')`).Error)
	require.NoError(t, gdb.Exec(`INSERT INTO news_photos (id, news_id) VALUES (3, 1)`).Error)

	require.NoError(t, store.SoftDelete(ctx, "news", 1))

	var stamps []string
	require.NoError(t, gdb.Table("news_photos").Order("id").Pluck("date_delete", &stamps).Error)
	require.Len(t, stamps, 2)
	assert.Equal(t, "2026-01-01 00:00:00", stamps[0], "existing tombstone keeps its original timestamp")
	assert.NotEmpty(t, stamps[1])
}
