package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/identity"
	domain "github.com/goodenergy/backend/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	ShortName   string `json:"short_name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Category    string `json:"category"`
	City        string `json:"city"`
}

type updateOrganizationRequest struct {
	Name            *string `json:"name"`
	ShortName       *string `json:"short_name"`
	Description     *string `json:"description"`
	FullDescription *string `json:"full_description"`
	VolunteerRole   *string `json:"volunteer_role"`
	Address         *string `json:"address"`
	Website         *string `json:"website"`
	Phone           *string `json:"phone"`
	FoundedYear     *int    `json:"founded_year"`
	Email           *string `json:"email"`
	Category        *string `json:"category"`
	City            *string `json:"city"`
}

func (r updateOrganizationRequest) toDomain() domain.UpdateProfileRequest {
	return domain.UpdateProfileRequest{
		Name:            r.Name,
		ShortName:       r.ShortName,
		Description:     r.Description,
		FullDescription: r.FullDescription,
		VolunteerRole:   r.VolunteerRole,
		Address:         r.Address,
		Website:         r.Website,
		Phone:           r.Phone,
		FoundedYear:     r.FoundedYear,
		Email:           r.Email,
		Category:        r.Category,
		City:            r.City,
	}
}

func (s *Server) ListApprovedOrganizations(c *gin.Context) {
	page, cursor, err := bindPage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	orgs, err := s.organizationSvc.ListApproved(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, info := paginate(orgs, page, cursor, func(o domain.Aggregate) string { return o.ID.String() })
	c.JSON(http.StatusOK, gin.H{"data": items, "page_info": info})
}

func (s *Server) GetOrganization(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	org, err := s.organizationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) ListOrganizations(c *gin.Context) {
	actor, _ := currentActor(c)

	var status *domain.ModerationStatus
	if raw := c.Query("status"); raw != "" {
		st := domain.ModerationStatus(raw)
		if !st.Valid() {
			AbortWithError(c, apperr.Validation("unknown status %q", raw))
			return
		}
		status = &st
	}

	orgs, err := s.organizationSvc.List(c.Request.Context(), actor, status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orgs})
}

func (s *Server) CreateOrganization(c *gin.Context) {
	actor, _ := currentActor(c)

	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), actor, domain.CreateRequest{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Email:       req.Email,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": org})
}

// GetOwnOrganization serves the nko cabinet profile view.
func (s *Server) GetOwnOrganization(c *gin.Context) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}
	org, err := s.organizationSvc.Get(c.Request.Context(), *actor.OrganizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) UpdateOwnOrganization(c *gin.Context) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}

	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	org, err := s.organizationSvc.UpdateProfile(c.Request.Context(), actor, *actor.OrganizationID, req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) SubmitOrganizationForReview(c *gin.Context) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}
	org, err := s.organizationSvc.SubmitForReview(c.Request.Context(), actor, *actor.OrganizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) ApproveOrganization(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	org, err := s.organizationSvc.Approve(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) RejectOrganization(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("rejection reason is required"))
		return
	}

	org, err := s.organizationSvc.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": org})
}

func (s *Server) SetOrganizationLogo(c *gin.Context) {
	s.setOrganizationImage(c, s.organizationSvc.SetLogo)
}

func (s *Server) SetOrganizationCover(c *gin.Context) {
	s.setOrganizationImage(c, s.organizationSvc.SetCover)
}

func (s *Server) AddOrganizationPhoto(c *gin.Context) {
	s.setOrganizationImage(c, s.organizationSvc.AddPhoto)
}

func (s *Server) AddOrganizationSocialLink(c *gin.Context) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}

	var req struct {
		SocialMediaType string `json:"social_media_type" binding:"required"`
		Link            string `json:"link" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	err := s.organizationSvc.AddSocialLink(c.Request.Context(), actor, *actor.OrganizationID, domain.AddSocialLinkRequest{
		SocialMediaType: req.SocialMediaType,
		Link:            req.Link,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.organizationSvc.Delete(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setOrganizationImageFn func(ctx context.Context, actor identity.Actor, id snowflake.ID, path string) error

func (s *Server) setOrganizationImage(c *gin.Context, set setOrganizationImageFn) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}

	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("path is required"))
		return
	}

	if err := set(c.Request.Context(), actor, *actor.OrganizationID, req.Path); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
