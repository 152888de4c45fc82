package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/config"
	eventdomain "github.com/goodenergy/backend/internal/event/domain"
	eventrepo "github.com/goodenergy/backend/internal/event/repository"
	eventservice "github.com/goodenergy/backend/internal/event/service"
	"github.com/goodenergy/backend/internal/favorite/domain"
	favoriterepo "github.com/goodenergy/backend/internal/favorite/repository"
	"github.com/goodenergy/backend/internal/identity"
	knowledgedomain "github.com/goodenergy/backend/internal/knowledge/domain"
	knowledgerepo "github.com/goodenergy/backend/internal/knowledge/repository"
	knowledgeservice "github.com/goodenergy/backend/internal/knowledge/service"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/metrics"
	newsdomain "github.com/goodenergy/backend/internal/news/domain"
	newsrepo "github.com/goodenergy/backend/internal/news/repository"
	newsservice "github.com/goodenergy/backend/internal/news/service"
	organizationdomain "github.com/goodenergy/backend/internal/organization/domain"
	organizationrepo "github.com/goodenergy/backend/internal/organization/repository"
	organizationservice "github.com/goodenergy/backend/internal/organization/service"
	"github.com/goodenergy/backend/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	repo  domain.Repository
	db    *gorm.DB
	clock *clock.FakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:fav-%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&domain.Favorite{},
		&organizationdomain.Organization{},
		&organizationdomain.Photo{},
		&organizationdomain.SocialLink{},
		&eventdomain.Event{},
		&eventdomain.Photo{},
		&eventdomain.File{},
		&eventdomain.Hashtag{},
		&eventdomain.Participation{},
		&newsdomain.News{},
		&newsdomain.Photo{},
		&newsdomain.File{},
		&newsdomain.Hashtag{},
		&knowledgedomain.Item{},
		&knowledgedomain.Material{},
	))
	require.NoError(t, gdb.Exec(
		`CREATE UNIQUE INDEX ux_favorites_active ON favorites (user_id, target_type, target_id) WHERE date_delete IS NULL`,
	).Error)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	refrepo := reference.NewRepository(gdb, node, clk)
	tombstones := lifecycle.NewStore(gdb, clk, log)
	moderation := metrics.NewModeration(metrics.NewRegistry())
	reviewCfg := config.NewStaticReviewConfigHolder(config.DefaultReviewConfig())

	organizations := organizationservice.NewService(
		gdb, organizationrepo.NewRepository(gdb), refrepo, tombstones, reviewCfg, moderation, node, clk, log,
	)
	events := eventservice.NewService(
		gdb, eventrepo.NewRepository(gdb), refrepo, tombstones, moderation, node, clk, log,
	)
	news := newsservice.NewService(
		gdb, newsrepo.NewRepository(gdb), refrepo, tombstones, node, clk, log,
	)
	knowledge := knowledgeservice.NewService(
		gdb, knowledgerepo.NewRepository(gdb), refrepo, tombstones, node, clk, log,
	)

	repo := favoriterepo.NewRepository(gdb)
	svc := NewService(gdb, repo, organizations, events, news, knowledge, node, clk, log)
	return &fixture{svc: svc, repo: repo, db: gdb, clock: clk}
}

var user = identity.Actor{UserID: 42, Role: identity.RoleUser}

func (f *fixture) seedOrganization(t *testing.T, id snowflake.ID, deleted bool) {
	t.Helper()
	now := f.clock.Now()
	org := organizationdomain.Organization{
		ID:               id,
		Name:             fmt.Sprintf("Org %d", id),
		Slug:             fmt.Sprintf("org-%d", id),
		ModerationStatus: organizationdomain.StatusApproved,
		DateCreate:       now,
		DateUpdate:       now,
	}
	if deleted {
		org.DateDelete = &now
	}
	require.NoError(t, f.db.Create(&org).Error)
}

func (f *fixture) seedEvent(t *testing.T, id snowflake.ID) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.db.Create(&eventdomain.Event{
		ID:               id,
		OrganizationID:   777,
		Name:             fmt.Sprintf("Event %d", id),
		ModerationStatus: eventdomain.StatusApproved,
		DateCreate:       now,
		DateUpdate:       now,
	}).Error)
}

func (f *fixture) seedNews(t *testing.T, id snowflake.ID) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.db.Create(&newsdomain.News{
		ID:         id,
		Name:       fmt.Sprintf("News %d", id),
		DateCreate: now,
		DateUpdate: now,
	}).Error)
}

func (f *fixture) seedKnowledge(t *testing.T, id snowflake.ID) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.db.Create(&knowledgedomain.Item{
		ID:         id,
		Name:       fmt.Sprintf("Item %d", id),
		DateCreate: now,
		DateUpdate: now,
	}).Error)
}

func (f *fixture) membershipRow(t *testing.T) domain.Favorite {
	t.Helper()
	var row domain.Favorite
	require.NoError(t, f.db.Table("favorites").Take(&row).Error)
	return row
}

func TestAddRemoveAddKeepsRowID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedOrganization(t, 7, false)

	target, err := f.svc.Add(ctx, user, domain.TargetOrganization, 7)
	require.NoError(t, err)
	require.NotNil(t, target.Organization)
	assert.EqualValues(t, 7, target.Organization.ID)
	first := f.membershipRow(t)

	require.NoError(t, f.svc.Remove(ctx, user, domain.TargetOrganization, 7))

	f.clock.Advance(time.Hour)
	_, err = f.svc.Add(ctx, user, domain.TargetOrganization, 7)
	require.NoError(t, err)
	second := f.membershipRow(t)

	assert.Equal(t, first.ID, second.ID, "restore must reuse the tombstoned row")
	assert.True(t, second.DateCreate.After(first.DateCreate), "restore bumps date_create")
	assert.Nil(t, second.DateDelete)

	var rows int64
	require.NoError(t, f.db.Table("favorites").Count(&rows).Error)
	assert.EqualValues(t, 1, rows, "no second row is inserted")
}

func TestAddActiveIsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedEvent(t, 5)

	_, err := f.svc.Add(ctx, user, domain.TargetEvent, 5)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, user, domain.TargetEvent, 5)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAddMissingTargetIsNotFound(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Add(context.Background(), user, domain.TargetEvent, 12345)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Table("favorites").Count(&rows).Error)
	assert.Zero(t, rows, "no membership row for a missing target")
}

func TestAddTombstonedTargetIsNotFound(t *testing.T) {
	f := setup(t)
	f.seedOrganization(t, 77, true)

	_, err := f.svc.Add(context.Background(), user, domain.TargetOrganization, 77)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Table("favorites").Count(&rows).Error)
	assert.Zero(t, rows, "no membership row for a tombstoned target")
}

func TestConcurrentAddLoserGetsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedNews(t, 11)

	_, err := f.svc.Add(ctx, user, domain.TargetNews, 11)
	require.NoError(t, err)

	// Bypass the service pre-check, as a racing Add that read the set
	// before the first insert committed would.
	err = f.repo.Insert(ctx, &domain.Favorite{
		ID:         999999,
		UserID:     user.UserID,
		TargetType: domain.TargetNews,
		TargetID:   11,
		DateCreate: f.clock.Now(),
		DateUpdate: f.clock.Now(),
	})
	assert.ErrorIs(t, err, apperr.ErrConflict, "partial unique index loser maps to Conflict")
}

func TestRemoveAbsentIsNotFound(t *testing.T) {
	f := setup(t)

	err := f.svc.Remove(context.Background(), user, domain.TargetNews, 9)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveTwiceIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.seedKnowledge(t, 3)

	_, err := f.svc.Add(ctx, user, domain.TargetKnowledge, 3)
	require.NoError(t, err)
	require.NoError(t, f.svc.Remove(ctx, user, domain.TargetKnowledge, 3))

	err = f.svc.Remove(ctx, user, domain.TargetKnowledge, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddKnowledgeDoesNotCountView(t *testing.T) {
	f := setup(t)
	f.seedKnowledge(t, 8)

	target, err := f.svc.Add(context.Background(), user, domain.TargetKnowledge, 8)
	require.NoError(t, err)
	require.NotNil(t, target.Knowledge)
	assert.EqualValues(t, 0, target.Knowledge.ViewCount)

	var count int64
	require.NoError(t, f.db.Table("knowledge_items").Select("view_count").Where("id = ?", 8).Scan(&count).Error)
	assert.Zero(t, count, "favoriting an item is not a view")
}

func TestListSkipsTombstonedTargets(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedOrganization(t, 1, false)
	f.seedOrganization(t, 2, false)

	_, err := f.svc.Add(ctx, user, domain.TargetOrganization, 1)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, user, domain.TargetOrganization, 2)
	require.NoError(t, err)

	require.NoError(t, f.db.Exec(
		`UPDATE organizations SET date_delete = '2026-03-02 00:00:00' WHERE id = 2`,
	).Error)

	targets, err := f.svc.List(ctx, user, domain.TargetOrganization)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.NotNil(t, targets[0].Organization)
	assert.EqualValues(t, 1, targets[0].Organization.ID)
}

func TestListScopedToUserAndType(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedOrganization(t, 1, false)
	f.seedEvent(t, 1)

	_, err := f.svc.Add(ctx, user, domain.TargetOrganization, 1)
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, user, domain.TargetEvent, 1)
	require.NoError(t, err)

	other := identity.Actor{UserID: 99, Role: identity.RoleUser}
	_, err = f.svc.Add(ctx, other, domain.TargetOrganization, 1)
	require.NoError(t, err)

	targets, err := f.svc.List(ctx, user, domain.TargetOrganization)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, domain.TargetOrganization, targets[0].Type)
	require.NotNil(t, targets[0].Organization)
	assert.EqualValues(t, 1, targets[0].Organization.ID)
}

func TestUnknownTargetTypeIsValidation(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Add(context.Background(), user, domain.TargetType("playlist"), 1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
