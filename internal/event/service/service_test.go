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
	"github.com/goodenergy/backend/internal/event/domain"
	eventrepo "github.com/goodenergy/backend/internal/event/repository"
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/metrics"
	"github.com/goodenergy/backend/internal/reference"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const orgID snowflake.ID = 777

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:event-%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&domain.Event{},
		&domain.Photo{},
		&domain.File{},
		&domain.Hashtag{},
		&domain.Participation{},
		&referencedomain.EventCategory{},
		&referencedomain.EventType{},
	))
	require.NoError(t, gdb.Exec(
		`CREATE TABLE favorites (id INTEGER PRIMARY KEY, user_id INTEGER, target_type TEXT, target_id INTEGER, date_delete DATETIME)`,
	).Error)
	require.NoError(t, gdb.Exec(
		`CREATE UNIQUE INDEX ux_event_participations_active ON event_participations (event_id, user_id) WHERE date_delete IS NULL`,
	).Error)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	svc := NewService(
		gdb,
		eventrepo.NewRepository(gdb),
		reference.NewRepository(gdb, node, clk),
		lifecycle.NewStore(gdb, clk, log),
		metrics.NewModeration(metrics.NewRegistry()),
		node,
		clk,
		log,
	)
	return &fixture{svc: svc, db: gdb, clock: clk}
}

var (
	admin = identity.Actor{UserID: 1, Role: identity.RoleAdmin}
	owner = identity.Actor{UserID: 2, Role: identity.RoleNKO, OrganizationID: func() *snowflake.ID { id := orgID; return &id }()}
	guest = identity.Actor{UserID: 3, Role: identity.RoleUser}
)

func (f *fixture) createEvent(t *testing.T, req domain.CreateRequest) *domain.Aggregate {
	t.Helper()
	if req.OrganizationID == 0 {
		req.OrganizationID = orgID
	}
	if req.Name == "" {
		req.Name = "Park cleanup"
	}
	event, err := f.svc.Create(context.Background(), owner, req)
	require.NoError(t, err)
	return event
}

func TestCreateStartsPending(t *testing.T) {
	f := setup(t)
	event := f.createEvent(t, domain.CreateRequest{
		Type:     "Volunteering",
		Category: "Ecology",
		Hashtags: []string{"#cleanup"},
	})

	assert.Equal(t, domain.StatusPending, event.ModerationStatus)
	assert.Equal(t, "Volunteering", event.TypeName)
	assert.Equal(t, "Ecology", event.CategoryName)
	assert.Len(t, event.Hashtags, 1)
}

func TestExplicitStatusRequiresAdmin(t *testing.T) {
	f := setup(t)
	approved := domain.StatusApproved

	_, err := f.svc.Create(context.Background(), owner, domain.CreateRequest{
		OrganizationID: orgID,
		Name:           "Imported",
		Status:         &approved,
	})
	assert.ErrorIs(t, err, apperr.ErrPermission)

	adminWithOrg := admin
	event, err := f.svc.Create(context.Background(), adminWithOrg, domain.CreateRequest{
		OrganizationID: orgID,
		Name:           "Imported",
		Status:         &approved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, event.ModerationStatus)
}

func TestNKOManagesOnlyOwnEvents(t *testing.T) {
	f := setup(t)

	otherOrg := snowflake.ID(888)
	_, err := f.svc.Create(context.Background(), owner, domain.CreateRequest{
		OrganizationID: otherOrg,
		Name:           "Not ours",
	})
	assert.ErrorIs(t, err, apperr.ErrPermission)
}

func TestUpdateDoesNotDegradeStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	_, err := f.svc.Approve(ctx, admin, event.ID)
	require.NoError(t, err)

	name := "Park cleanup, spring edition"
	got, err := f.svc.Update(ctx, owner, event.ID, domain.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.ModerationStatus)
	assert.Equal(t, name, got.Name)
}

func TestReplaceImagesSwapsWholeSet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{
		ImagePaths: []string{"a.jpg", "b.jpg"},
	})

	got, err := f.svc.ReplaceImages(ctx, owner, event.ID, []string{"c.jpg"})
	require.NoError(t, err)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "c.jpg", got.Photos[0].Path)

	// The old rows remain as tombstones.
	var total, live int64
	require.NoError(t, f.db.Table("event_photos").Count(&total).Error)
	require.NoError(t, f.db.Table("event_photos").Where("date_delete IS NULL").Count(&live).Error)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 1, live)
}

func TestRemoveImageByPath(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{
		ImagePaths: []string{"a.jpg", "b.jpg"},
	})

	require.NoError(t, f.svc.RemoveImage(ctx, owner, event.ID, "a.jpg"))

	got, err := f.svc.Get(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.Photos, 1)
	assert.Equal(t, "b.jpg", got.Photos[0].Path)

	err = f.svc.RemoveImage(ctx, owner, event.ID, "a.jpg")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "already tombstoned path")

	err = f.svc.RemoveImage(ctx, guest, event.ID, "b.jpg")
	assert.ErrorIs(t, err, apperr.ErrPermission)
}

func TestRegisterOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	p, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationPending, p.Status)

	_, err = f.svc.Register(ctx, guest, event.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestConcurrentRegistrationLoserGetsConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	_, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)

	// Bypass the duplicate pre-check, as a racing registration that read
	// the table before the first insert committed would.
	now := f.clock.Now()
	err = eventrepo.NewRepository(f.db).CreateParticipation(ctx, &domain.Participation{
		ID:          999999,
		EventID:     event.ID,
		UserID:      guest.UserID,
		Status:      domain.ParticipationPending,
		SubmittedAt: now,
		DateCreate:  now,
		DateUpdate:  now,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict, "partial unique index loser maps to Conflict")
}

func TestRegisterFullEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	capacity := 1
	event := f.createEvent(t, domain.CreateRequest{Capacity: &capacity})

	_, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)

	another := identity.Actor{UserID: 4, Role: identity.RoleUser}
	_, err = f.svc.Register(ctx, another, event.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegisterAfterDeadline(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	deadline := f.clock.Now().Add(time.Hour)
	event := f.createEvent(t, domain.CreateRequest{RegistrationDeadline: &deadline})

	f.clock.Advance(2 * time.Hour)
	_, err := f.svc.Register(ctx, guest, event.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUnregisterThenRegisterAgain(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	_, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Unregister(ctx, guest, event.ID))

	// A fresh registration gets a fresh row.
	p, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationPending, p.Status)
}

func TestDecideParticipation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	_, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)

	p, err := f.svc.DecideParticipation(ctx, owner, event.ID, guest.UserID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipationApproved, p.Status)
	require.NotNil(t, p.DecidedAt)
	require.NotNil(t, p.RepresentativeUserID)
	assert.Equal(t, owner.UserID, *p.RepresentativeUserID)
}

func TestDeleteCascadesToParticipations(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	event := f.createEvent(t, domain.CreateRequest{})

	_, err := f.svc.Register(ctx, guest, event.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, owner, event.ID))

	_, err = f.svc.Get(ctx, event.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var live int64
	require.NoError(t, f.db.Table("event_participations").Where("date_delete IS NULL").Count(&live).Error)
	assert.Zero(t, live)
}
