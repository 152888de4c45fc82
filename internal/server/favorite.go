package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domain "github.com/goodenergy/backend/internal/favorite/domain"
)

func (s *Server) ListFavorites(c *gin.Context) {
	actor, _ := currentActor(c)
	targetType := domain.TargetType(c.Param("type"))

	targets, err := s.favoriteSvc.List(c.Request.Context(), actor, targetType)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": targets})
}

func (s *Server) AddFavorite(c *gin.Context) {
	actor, _ := currentActor(c)
	targetType := domain.TargetType(c.Param("type"))
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	target, err := s.favoriteSvc.Add(c.Request.Context(), actor, targetType, targetID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": target})
}

func (s *Server) RemoveFavorite(c *gin.Context) {
	actor, _ := currentActor(c)
	targetType := domain.TargetType(c.Param("type"))
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.favoriteSvc.Remove(c.Request.Context(), actor, targetType, targetID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
