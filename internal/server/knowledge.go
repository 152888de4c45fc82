package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	domain "github.com/goodenergy/backend/internal/knowledge/domain"
)

type createKnowledgeRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	FullDescription string `json:"full_description"`
	VideoURL        string `json:"video_url"`
	MaterialURL     string `json:"material_url"`
	Category        string `json:"category"`
	MaterialType    string `json:"material_type"`
}

type updateKnowledgeRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	FullDescription *string `json:"full_description"`
	VideoURL        *string `json:"video_url"`
	MaterialURL     *string `json:"material_url"`
	Category        *string `json:"category"`
	MaterialType    *string `json:"material_type"`
}

func (s *Server) ListKnowledge(c *gin.Context) {
	page, cursor, err := bindPage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.knowledgeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pageItems, info := paginate(items, page, cursor, func(i domain.Aggregate) string { return i.ID.String() })
	c.JSON(http.StatusOK, gin.H{"data": pageItems, "page_info": info})
}

func (s *Server) GetKnowledge(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := s.knowledgeSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) CreateKnowledge(c *gin.Context) {
	actor, _ := currentActor(c)

	var req createKnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	item, err := s.knowledgeSvc.Create(c.Request.Context(), actor, domain.CreateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		VideoURL:        req.VideoURL,
		MaterialURL:     req.MaterialURL,
		Category:        req.Category,
		MaterialType:    req.MaterialType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) UpdateKnowledge(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateKnowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	item, err := s.knowledgeSvc.Update(c.Request.Context(), actor, id, domain.UpdateRequest{
		Name:            req.Name,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		VideoURL:        req.VideoURL,
		MaterialURL:     req.MaterialURL,
		Category:        req.Category,
		MaterialType:    req.MaterialType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteKnowledge(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.knowledgeSvc.Delete(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AddKnowledgeMaterial(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("name and path are required"))
		return
	}

	err := s.knowledgeSvc.AddMaterial(c.Request.Context(), actor, id, domain.AddMaterialRequest{
		Name: req.Name,
		Path: req.Path,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
