package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	domain "github.com/goodenergy/backend/internal/event/domain"
)

type createEventRequest struct {
	OrganizationID       string   `json:"organization_id"`
	Name                 string   `json:"name" binding:"required"`
	StartsAt             string   `json:"starts_at"`
	RegistrationDeadline string   `json:"registration_deadline"`
	Description          string   `json:"description"`
	FullDescription      string   `json:"full_description"`
	Address              string   `json:"address"`
	Type                 string   `json:"type"`
	Category             string   `json:"category"`
	Capacity             *int     `json:"capacity"`
	Hashtags             []string `json:"hashtags"`
	ImagePaths           []string `json:"image_paths"`
	Status               *string  `json:"status"`
}

type updateEventRequest struct {
	Name                 *string `json:"name"`
	StartsAt             *string `json:"starts_at"`
	RegistrationDeadline *string `json:"registration_deadline"`
	Description          *string `json:"description"`
	FullDescription      *string `json:"full_description"`
	Address              *string `json:"address"`
	Type                 *string `json:"type"`
	Category             *string `json:"category"`
	Capacity             *int    `json:"capacity"`
}

func (s *Server) ListApprovedEvents(c *gin.Context) {
	page, cursor, err := bindPage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	events, err := s.eventSvc.ListApproved(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, info := paginate(events, page, cursor, func(e domain.Aggregate) string { return e.ID.String() })
	c.JSON(http.StatusOK, gin.H{"data": items, "page_info": info})
}

func (s *Server) GetEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := s.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (s *Server) ListEvents(c *gin.Context) {
	var status *domain.ModerationStatus
	if raw := c.Query("status"); raw != "" {
		st := domain.ModerationStatus(raw)
		if !st.Valid() {
			AbortWithError(c, apperr.Validation("unknown status %q", raw))
			return
		}
		status = &st
	}

	events, err := s.eventSvc.List(c.Request.Context(), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) ListOwnEvents(c *gin.Context) {
	actor, _ := currentActor(c)
	if actor.OrganizationID == nil {
		AbortWithError(c, apperr.NotFound("actor has no organization"))
		return
	}
	events, err := s.eventSvc.ListByOrganization(c.Request.Context(), actor, *actor.OrganizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) CreateEvent(c *gin.Context) {
	actor, _ := currentActor(c)

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	create := domain.CreateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Address:         req.Address,
		Type:            req.Type,
		Category:        req.Category,
		Capacity:        req.Capacity,
		Hashtags:        req.Hashtags,
		ImagePaths:      req.ImagePaths,
	}

	if req.OrganizationID != "" {
		orgID, err := parseSnowflakeID(req.OrganizationID)
		if err != nil {
			AbortWithError(c, apperr.Validation("invalid organization_id"))
			return
		}
		create.OrganizationID = orgID
	} else if actor.OrganizationID != nil {
		create.OrganizationID = *actor.OrganizationID
	} else {
		AbortWithError(c, apperr.Validation("organization_id is required"))
		return
	}

	var err error
	if create.StartsAt, err = parseOptionalTime(req.StartsAt); err != nil {
		AbortWithError(c, apperr.Validation("invalid starts_at"))
		return
	}
	if create.RegistrationDeadline, err = parseOptionalTime(req.RegistrationDeadline); err != nil {
		AbortWithError(c, apperr.Validation("invalid registration_deadline"))
		return
	}
	if req.Status != nil {
		st := domain.ModerationStatus(*req.Status)
		create.Status = &st
	}

	event, err := s.eventSvc.Create(c.Request.Context(), actor, create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": event})
}

func (s *Server) UpdateEvent(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	update := domain.UpdateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Address:         req.Address,
		Type:            req.Type,
		Category:        req.Category,
		Capacity:        req.Capacity,
	}

	var err error
	if req.StartsAt != nil {
		if update.StartsAt, err = parseOptionalTime(*req.StartsAt); err != nil {
			AbortWithError(c, apperr.Validation("invalid starts_at"))
			return
		}
	}
	if req.RegistrationDeadline != nil {
		if update.RegistrationDeadline, err = parseOptionalTime(*req.RegistrationDeadline); err != nil {
			AbortWithError(c, apperr.Validation("invalid registration_deadline"))
			return
		}
	}

	event, err := s.eventSvc.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (s *Server) ApproveEvent(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	event, err := s.eventSvc.Approve(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (s *Server) RejectEvent(c *gin.Context) {
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

	event, err := s.eventSvc.Reject(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (s *Server) ReplaceEventImages(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Paths []string `json:"paths"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	event, err := s.eventSvc.ReplaceImages(c.Request.Context(), actor, id, req.Paths)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

// RemoveEventImage tombstones one image addressed by its path.
func (s *Server) RemoveEventImage(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("path is required"))
		return
	}

	if err := s.eventSvc.RemoveImage(c.Request.Context(), actor, id, req.Path); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddEventFile(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("path is required"))
		return
	}

	if err := s.eventSvc.AddFile(c.Request.Context(), actor, id, req.Path); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddEventHashtag(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("name is required"))
		return
	}

	if err := s.eventSvc.AddHashtag(c.Request.Context(), actor, id, req.Name); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteEvent(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.eventSvc.Delete(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) RegisterForEvent(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := s.eventSvc.Register(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": p})
}

func (s *Server) UnregisterFromEvent(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.eventSvc.Unregister(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListRegisteredEvents(c *gin.Context) {
	actor, _ := currentActor(c)
	events, err := s.eventSvc.ListRegisteredEvents(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) ListEventParticipations(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	participations, err := s.eventSvc.ListParticipations(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": participations})
}

func (s *Server) DecideEventParticipation(c *gin.Context) {
	actor, _ := currentActor(c)
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("approved is required"))
		return
	}

	p, err := s.eventSvc.DecideParticipation(c.Request.Context(), actor, eventID, userID, *req.Approved)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": p})
}
