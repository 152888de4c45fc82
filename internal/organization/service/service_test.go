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
	"github.com/goodenergy/backend/internal/identity"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/metrics"
	"github.com/goodenergy/backend/internal/organization/domain"
	orgrepo "github.com/goodenergy/backend/internal/organization/repository"
	"github.com/goodenergy/backend/internal/reference"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:org-%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&domain.Organization{},
		&domain.Photo{},
		&domain.SocialLink{},
		&referencedomain.OrganizationCategory{},
		&referencedomain.City{},
		&referencedomain.SocialMediaType{},
	))
	// Cascade targets not modeled in this package.
	for _, stmt := range []string{
		`CREATE TABLE events (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE event_participations (id INTEGER PRIMARY KEY, event_id INTEGER, organization_id INTEGER, user_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE users (id INTEGER PRIMARY KEY, organization_id INTEGER, date_delete DATETIME)`,
		`CREATE TABLE favorites (id INTEGER PRIMARY KEY, user_id INTEGER, target_type TEXT, target_id INTEGER, date_delete DATETIME)`,
	} {
		require.NoError(t, gdb.Exec(stmt).Error)
	}

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	svc := NewService(
		gdb,
		orgrepo.NewRepository(gdb),
		reference.NewRepository(gdb, node, clk),
		lifecycle.NewStore(gdb, clk, log),
		config.NewStaticReviewConfigHolder(config.DefaultReviewConfig()),
		metrics.NewModeration(metrics.NewRegistry()),
		node,
		clk,
		log,
	)
	return &fixture{svc: svc, db: gdb, clock: clk}
}

var admin = identity.Actor{UserID: 1, Role: identity.RoleAdmin}

func ownerOf(orgID snowflake.ID) identity.Actor {
	return identity.Actor{UserID: 2, Role: identity.RoleNKO, OrganizationID: &orgID}
}

func (f *fixture) createOrg(t *testing.T) *domain.Aggregate {
	t.Helper()
	org, err := f.svc.Create(context.Background(), admin, domain.CreateRequest{
		Name:     "Good Energy Fund",
		Email:    "fund@example.org",
		Category: "Ecology",
		City:     "Kazan",
	})
	require.NoError(t, err)
	return org
}

func strptr(s string) *string { return &s }

func TestCreateStartsNotSubmitted(t *testing.T) {
	f := setup(t)
	org := f.createOrg(t)

	assert.Equal(t, domain.StatusNotSubmitted, org.ModerationStatus)
	assert.Nil(t, org.RejectionReason)
	assert.NotEmpty(t, org.Slug)
	assert.Equal(t, "Ecology", org.CategoryName)
	assert.Equal(t, "Kazan", org.CityName)
}

func TestSubmitReviewRejectEditResubmitApprove(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)
	owner := ownerOf(org.ID)

	// Submit for review.
	got, err := f.svc.SubmitForReview(ctx, owner, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.ModerationStatus)

	// Reject with a reason.
	got, err = f.svc.Reject(ctx, admin, org.ID, "Missing documents")
	require.NoError(t, err)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t, "Missing documents", *got.RejectionReason)

	// An owner edit of a sensitive field resets a rejected listing to
	// not_submitted and clears the reason.
	got, err = f.svc.UpdateProfile(ctx, owner, org.ID, domain.UpdateProfileRequest{
		Address: strptr("Baumana st. 1"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotSubmitted, got.ModerationStatus)
	assert.Nil(t, got.RejectionReason)
	assert.Equal(t, "Baumana st. 1", got.Address)

	// Resubmit and approve.
	_, err = f.svc.SubmitForReview(ctx, owner, org.ID)
	require.NoError(t, err)
	got, err = f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.ModerationStatus)
	assert.Nil(t, got.RejectionReason)
}

func TestOwnerEditDegradesApprovedToPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)
	owner := ownerOf(org.ID)

	_, err := f.svc.SubmitForReview(ctx, owner, org.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)

	got, err := f.svc.UpdateProfile(ctx, owner, org.ID, domain.UpdateProfileRequest{
		Description: strptr("We plant trees."),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.ModerationStatus)
}

func TestStaffEditDoesNotDegrade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)
	owner := ownerOf(org.ID)

	_, err := f.svc.SubmitForReview(ctx, owner, org.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)

	got, err := f.svc.UpdateProfile(ctx, admin, org.ID, domain.UpdateProfileRequest{
		Description: strptr("Fixed a typo."),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.ModerationStatus)
}

func TestSubmitConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)
	owner := ownerOf(org.ID)

	_, err := f.svc.SubmitForReview(ctx, owner, org.ID)
	require.NoError(t, err)

	// Already pending.
	_, err = f.svc.SubmitForReview(ctx, owner, org.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)

	// Already approved.
	_, err = f.svc.SubmitForReview(ctx, owner, org.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)

	_, err := f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)
	got, err := f.svc.Approve(ctx, admin, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.ModerationStatus)
}

func TestRejectReasonTooLong(t *testing.T) {
	f := setup(t)
	org := f.createOrg(t)

	long := make([]byte, config.DefaultReviewConfig().MaxRejectionReasonLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := f.svc.Reject(context.Background(), admin, org.ID, string(long))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNonOwnerCannotEdit(t *testing.T) {
	f := setup(t)
	org := f.createOrg(t)

	other := identity.Actor{UserID: 9, Role: identity.RoleNKO}
	_, err := f.svc.UpdateProfile(context.Background(), other, org.ID, domain.UpdateProfileRequest{
		Name: strptr("Hijacked"),
	})
	assert.ErrorIs(t, err, apperr.ErrPermission)
}

func TestDeleteCascadesToChildren(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	org := f.createOrg(t)
	owner := ownerOf(org.ID)

	require.NoError(t, f.svc.AddPhoto(ctx, owner, org.ID, "photos/1.jpg"))
	require.NoError(t, f.db.Exec(
		`INSERT INTO favorites (id, user_id, target_type, target_id) VALUES (1, 5, 'organization', ?)`, org.ID,
	).Error)

	require.NoError(t, f.svc.Delete(ctx, admin, org.ID))

	_, err := f.svc.Get(ctx, org.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var live int64
	require.NoError(t, f.db.Table("organization_photos").Where("date_delete IS NULL").Count(&live).Error)
	assert.Zero(t, live)
	require.NoError(t, f.db.Table("favorites").Where("date_delete IS NULL").Count(&live).Error)
	assert.Zero(t, live)
}
