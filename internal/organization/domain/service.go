package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/identity"
)

type CreateRequest struct {
	Name        string
	ShortName   string
	Email       string
	Description string
	Category    string
	City        string
}

// UpdateProfileRequest updates fields explicitly; nil means "leave as is".
type UpdateProfileRequest struct {
	Name            *string
	ShortName       *string
	Description     *string
	FullDescription *string
	VolunteerRole   *string
	Address         *string
	Website         *string
	Phone           *string
	FoundedYear     *int
	Email           *string
	Category        *string
	City            *string
}

// Changed lists the names of fields the request sets, for matching against
// the review policy's sensitive set.
func (r UpdateProfileRequest) Changed() []string {
	var fields []string
	add := func(name string, set bool) {
		if set {
			fields = append(fields, name)
		}
	}
	add("name", r.Name != nil)
	add("short_name", r.ShortName != nil)
	add("description", r.Description != nil)
	add("full_description", r.FullDescription != nil)
	add("volunteer_role", r.VolunteerRole != nil)
	add("address", r.Address != nil)
	add("website", r.Website != nil)
	add("phone", r.Phone != nil)
	add("founded_year", r.FoundedYear != nil)
	add("email", r.Email != nil)
	add("category", r.Category != nil)
	add("city", r.City != nil)
	return fields
}

type AddSocialLinkRequest struct {
	SocialMediaType string
	Link            string
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Aggregate, error)
	Get(ctx context.Context, id snowflake.ID) (*Aggregate, error)
	List(ctx context.Context, actor identity.Actor, status *ModerationStatus) ([]Aggregate, error)
	ListApproved(ctx context.Context) ([]Aggregate, error)

	// UpdateProfile mutates profile fields. An owner edit degrades an
	// approved listing to pending and a rejected one to not_submitted.
	UpdateProfile(ctx context.Context, actor identity.Actor, id snowflake.ID, req UpdateProfileRequest) (*Aggregate, error)

	// SubmitForReview is the explicit owner action moving not_submitted or
	// rejected to pending.
	SubmitForReview(ctx context.Context, actor identity.Actor, id snowflake.ID) (*Aggregate, error)
	Approve(ctx context.Context, actor identity.Actor, id snowflake.ID) (*Aggregate, error)
	Reject(ctx context.Context, actor identity.Actor, id snowflake.ID, reason string) (*Aggregate, error)

	SetLogo(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	SetCover(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddPhoto(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error
	AddSocialLink(ctx context.Context, actor identity.Actor, id snowflake.ID, req AddSocialLinkRequest) error

	Delete(ctx context.Context, actor identity.Actor, id snowflake.ID) error
}
