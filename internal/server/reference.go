package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	domain "github.com/goodenergy/backend/internal/reference/domain"
)

func (s *Server) ListReference(c *gin.Context) {
	kind := domain.Kind(c.Param("kind"))
	if kind.Table() == "" {
		AbortWithError(c, apperr.Validation("unknown reference kind %q", c.Param("kind")))
		return
	}

	entries, err := s.refrepo.List(c.Request.Context(), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// ListCities returns all cities, or only those with at least one live
// organization when ?with_organizations=true.
func (s *Server) ListCities(c *gin.Context) {
	withOrgs, _ := strconv.ParseBool(c.DefaultQuery("with_organizations", "false"))

	var (
		cities []domain.City
		err    error
	)
	if withOrgs {
		cities, err = s.refrepo.ListCitiesWithOrganizations(c.Request.Context())
	} else {
		cities, err = s.refrepo.ListCities(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cities})
}
