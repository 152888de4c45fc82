package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/identity"
	domain "github.com/goodenergy/backend/internal/news/domain"
)

type newsAttachmentFn func(ctx context.Context, actor identity.Actor, id snowflake.ID, value string) error

type createNewsRequest struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	FullDescription string   `json:"full_description"`
	EventDate       string   `json:"event_date"`
	Category        string   `json:"category"`
	City            string   `json:"city"`
	Hashtags        []string `json:"hashtags"`
	ImagePaths      []string `json:"image_paths"`
}

type updateNewsRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	FullDescription *string `json:"full_description"`
	EventDate       *string `json:"event_date"`
	Category        *string `json:"category"`
	City            *string `json:"city"`
}

func (s *Server) ListNews(c *gin.Context) {
	page, cursor, err := bindPage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	news, err := s.newsSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, info := paginate(news, page, cursor, func(n domain.Aggregate) string { return n.ID.String() })
	c.JSON(http.StatusOK, gin.H{"data": items, "page_info": info})
}

func (s *Server) GetNews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := s.newsSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) CreateNews(c *gin.Context) {
	actor, _ := currentActor(c)

	var req createNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	eventDate, err := parseOptionalTime(req.EventDate)
	if err != nil {
		AbortWithError(c, apperr.Validation("invalid event_date"))
		return
	}

	item, err := s.newsSvc.Create(c.Request.Context(), actor, domain.CreateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		EventDate:       eventDate,
		Category:        req.Category,
		City:            req.City,
		Hashtags:        req.Hashtags,
		ImagePaths:      req.ImagePaths,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateNews(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	update := domain.UpdateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Category:        req.Category,
		City:            req.City,
	}
	if req.EventDate != nil {
		eventDate, err := parseOptionalTime(*req.EventDate)
		if err != nil {
			AbortWithError(c, apperr.Validation("invalid event_date"))
			return
		}
		update.EventDate = eventDate
	}

	item, err := s.newsSvc.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteNews(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.newsSvc.Delete(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddNewsPhoto(c *gin.Context) {
	s.newsAttachment(c, s.newsSvc.AddPhoto)
}

// RemoveNewsPhoto tombstones a photo addressed by its path.
func (s *Server) RemoveNewsPhoto(c *gin.Context) {
	s.newsAttachment(c, s.newsSvc.RemovePhoto)
}

func (s *Server) AddNewsFile(c *gin.Context) {
	s.newsAttachment(c, s.newsSvc.AddFile)
}

func (s *Server) AddNewsHashtag(c *gin.Context) {
	s.newsAttachment(c, s.newsSvc.AddHashtag)
}

func (s *Server) newsAttachment(c *gin.Context, apply newsAttachmentFn) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("value is required"))
		return
	}

	if err := apply(c.Request.Context(), actor, id, req.Value); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
