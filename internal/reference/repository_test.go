package reference

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&domain.OrganizationCategory{},
		&domain.EventCategory{},
		&domain.City{},
	))
	gdb.Exec(`CREATE TABLE organizations (
		id INTEGER PRIMARY KEY,
		city_id INTEGER,
		date_delete DATETIME
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewRepository(gdb, node, clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))), gdb
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first, err := repo.ResolveOrCreate(ctx, domain.KindOrganizationCategory, "Ecology")
	require.NoError(t, err)

	second, err := repo.ResolveOrCreate(ctx, domain.KindOrganizationCategory, "Ecology")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := repo.List(ctx, domain.KindOrganizationCategory)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolveOrCreateIsCaseSensitive(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	lower, err := repo.ResolveOrCreate(ctx, domain.KindEventCategory, "sport")
	require.NoError(t, err)
	upper, err := repo.ResolveOrCreate(ctx, domain.KindEventCategory, "Sport")
	require.NoError(t, err)
	assert.NotEqual(t, lower, upper)
}

func TestResolveOrCreateRejectsEmptyKey(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.ResolveOrCreate(context.Background(), domain.KindCity, "   ")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestResolveOrCreateSkipsTombstonedRows(t *testing.T) {
	repo, gdb := setupRepo(t)
	ctx := context.Background()

	first, err := repo.ResolveOrCreate(ctx, domain.KindOrganizationCategory, "Health")
	require.NoError(t, err)

	gdb.Exec(`UPDATE organization_categories SET date_delete = ? WHERE id = ?`, time.Now().UTC(), first)

	second, err := repo.ResolveOrCreate(ctx, domain.KindOrganizationCategory, "Health")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNameOf(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	id, err := repo.ResolveOrCreate(ctx, domain.KindCity, "Kazan")
	require.NoError(t, err)

	name, err := repo.NameOf(ctx, domain.KindCity, id)
	require.NoError(t, err)
	assert.Equal(t, "Kazan", name)

	_, err = repo.NameOf(ctx, domain.KindCity, id+1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListCitiesWithOrganizations(t *testing.T) {
	repo, gdb := setupRepo(t)
	ctx := context.Background()

	withOrg, err := repo.ResolveOrCreate(ctx, domain.KindCity, "Moscow")
	require.NoError(t, err)
	_, err = repo.ResolveOrCreate(ctx, domain.KindCity, "Samara")
	require.NoError(t, err)

	gdb.Exec(`INSERT INTO organizations (id, city_id) VALUES (1, ?)`, withOrg)

	cities, err := repo.ListCitiesWithOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "Moscow", cities[0].Name)
}
