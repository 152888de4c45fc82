package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/internal/identity"
	domain "github.com/goodenergy/backend/internal/user/domain"
)

type createUserRequest struct {
	Surname      string  `json:"surname"`
	Name         string  `json:"name" binding:"required"`
	Patronymic   string  `json:"patronymic"`
	Email        string  `json:"email" binding:"required"`
	PasswordHash string  `json:"password_hash" binding:"required"`
	Role         string  `json:"role"`
	City         string  `json:"city"`
	Organization *string `json:"organization_id"`
	PhotoPath    string  `json:"photo_path"`
}

type updateUserRequest struct {
	Surname      *string `json:"surname"`
	Name         *string `json:"name"`
	Patronymic   *string `json:"patronymic"`
	Role         *string `json:"role"`
	City         *string `json:"city"`
	Organization *string `json:"organization_id"`
	PhotoPath    *string `json:"photo_path"`
}

func (r updateUserRequest) toDomain() (domain.UpdateRequest, error) {
	update := domain.UpdateRequest{
		Surname:    r.Surname,
		Name:       r.Name,
		Patronymic: r.Patronymic,
		City:       r.City,
		PhotoPath:  r.PhotoPath,
	}
	if r.Role != nil {
		role := identity.Role(*r.Role)
		update.Role = &role
	}
	if r.Organization != nil {
		orgID, err := parseSnowflakeID(*r.Organization)
		if err != nil {
			return update, apperr.Validation("invalid organization_id")
		}
		update.Organization = &orgID
	}
	return update, nil
}

func (s *Server) Me(c *gin.Context) {
	actor, _ := currentActor(c)
	u, err := s.userSvc.Get(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (s *Server) UpdateMe(c *gin.Context) {
	actor, _ := currentActor(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}
	update, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	u, err := s.userSvc.Update(c.Request.Context(), actor, actor.UserID, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (s *Server) ListUsers(c *gin.Context) {
	actor, _ := currentActor(c)
	users, err := s.userSvc.List(c.Request.Context(), actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) CreateUser(c *gin.Context) {
	actor, _ := currentActor(c)

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}

	create := domain.CreateRequest{
		Surname:      req.Surname,
		Name:         req.Name,
		Patronymic:   req.Patronymic,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		Role:         identity.Role(req.Role),
		City:         req.City,
		PhotoPath:    req.PhotoPath,
	}
	if req.Organization != nil {
		orgID, err := parseSnowflakeID(*req.Organization)
		if err != nil {
			AbortWithError(c, apperr.Validation("invalid organization_id"))
			return
		}
		create.Organization = &orgID
	}

	u, err := s.userSvc.Create(c.Request.Context(), actor, create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": u})
}

func (s *Server) GetUser(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := s.userSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (s *Server) UpdateUser(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, apperr.Validation("invalid request body"))
		return
	}
	update, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	u, err := s.userSvc.Update(c.Request.Context(), actor, id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": u})
}

func (s *Server) DeleteUser(c *gin.Context) {
	actor, _ := currentActor(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.userSvc.Delete(c.Request.Context(), actor, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
