package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/config"
	eventdomain "github.com/goodenergy/backend/internal/event/domain"
	favoritedomain "github.com/goodenergy/backend/internal/favorite/domain"
	"github.com/goodenergy/backend/internal/identity"
	knowledgedomain "github.com/goodenergy/backend/internal/knowledge/domain"
	newsdomain "github.com/goodenergy/backend/internal/news/domain"
	organizationdomain "github.com/goodenergy/backend/internal/organization/domain"
	referencedomain "github.com/goodenergy/backend/internal/reference/domain"
	userdomain "github.com/goodenergy/backend/internal/user/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(log *zap.Logger, registry *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	genID           *snowflake.Node
	organizationSvc organizationdomain.Service
	eventSvc        eventdomain.Service
	newsSvc         newsdomain.Service
	knowledgeSvc    knowledgedomain.Service
	favoriteSvc     favoritedomain.Service
	userSvc         userdomain.Service
	refrepo         referencedomain.Repository
	log             *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	GenID           *snowflake.Node
	OrganizationSvc organizationdomain.Service
	EventSvc        eventdomain.Service
	NewsSvc         newsdomain.Service
	KnowledgeSvc    knowledgedomain.Service
	FavoriteSvc     favoritedomain.Service
	UserSvc         userdomain.Service
	Refrepo         referencedomain.Repository
	Log             *zap.Logger
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		eventSvc:        p.EventSvc,
		newsSvc:         p.NewsSvc,
		knowledgeSvc:    p.KnowledgeSvc,
		favoriteSvc:     p.FavoriteSvc,
		userSvc:         p.UserSvc,
		refrepo:         p.Refrepo,
		log:             p.Log,
	}

	s.registerPublicRoutes()
	s.registerUserRoutes()
	s.registerNKORoutes()
	s.registerAdminRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerPublicRoutes() {
	api := s.engine.Group("/api")

	api.GET("/organizations", s.ListApprovedOrganizations)
	api.GET("/organizations/:id", s.GetOrganization)
	api.GET("/events", s.ListApprovedEvents)
	api.GET("/events/:id", s.GetEvent)
	api.GET("/news", s.ListNews)
	api.GET("/news/:id", s.GetNews)
	api.GET("/knowledge", s.ListKnowledge)
	api.GET("/knowledge/:id", s.GetKnowledge)

	api.GET("/cities", s.ListCities)
	api.GET("/reference/:kind", s.ListReference)
}

func (s *Server) registerUserRoutes() {
	user := s.engine.Group("/api/user", s.AuthRequired())

	user.GET("/me", s.Me)
	user.PATCH("/me", s.UpdateMe)

	user.GET("/favorites/:type", s.ListFavorites)
	user.POST("/favorites/:type/:id", s.AddFavorite)
	user.DELETE("/favorites/:type/:id", s.RemoveFavorite)

	user.GET("/events", s.ListRegisteredEvents)
	user.POST("/events/:id/register", s.RegisterForEvent)
	user.DELETE("/events/:id/register", s.UnregisterFromEvent)
}

func (s *Server) registerNKORoutes() {
	nko := s.engine.Group("/api/nko", s.AuthRequired(), s.RoleRequired(identity.RoleNKO, identity.RoleModerator, identity.RoleAdmin))

	nko.GET("/organization", s.GetOwnOrganization)
	nko.PATCH("/organization", s.UpdateOwnOrganization)
	nko.POST("/organization/submit", s.SubmitOrganizationForReview)
	nko.PUT("/organization/logo", s.SetOrganizationLogo)
	nko.PUT("/organization/cover", s.SetOrganizationCover)
	nko.POST("/organization/photos", s.AddOrganizationPhoto)
	nko.POST("/organization/social-links", s.AddOrganizationSocialLink)

	nko.GET("/events", s.ListOwnEvents)
	nko.POST("/events", s.CreateEvent)
	nko.PATCH("/events/:id", s.UpdateEvent)
	nko.PUT("/events/:id/images", s.ReplaceEventImages)
	nko.DELETE("/events/:id/images", s.RemoveEventImage)
	nko.POST("/events/:id/files", s.AddEventFile)
	nko.POST("/events/:id/hashtags", s.AddEventHashtag)
	nko.DELETE("/events/:id", s.DeleteEvent)
	nko.GET("/events/:id/participations", s.ListEventParticipations)
	nko.POST("/events/:id/participations/:userId", s.DecideEventParticipation)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin", s.AuthRequired(), s.RoleRequired(identity.RoleModerator, identity.RoleAdmin))

	admin.GET("/organizations", s.ListOrganizations)
	admin.POST("/organizations", s.CreateOrganization)
	admin.POST("/organizations/:id/approve", s.ApproveOrganization)
	admin.POST("/organizations/:id/reject", s.RejectOrganization)
	admin.DELETE("/organizations/:id", s.DeleteOrganization)

	admin.GET("/events", s.ListEvents)
	admin.POST("/events", s.CreateEvent)
	admin.POST("/events/:id/approve", s.ApproveEvent)
	admin.POST("/events/:id/reject", s.RejectEvent)
	admin.DELETE("/events/:id", s.DeleteEvent)

	admin.POST("/news", s.CreateNews)
	admin.PATCH("/news/:id", s.UpdateNews)
	admin.DELETE("/news/:id", s.DeleteNews)
	admin.POST("/news/:id/photos", s.AddNewsPhoto)
	admin.DELETE("/news/:id/photos", s.RemoveNewsPhoto)
	admin.POST("/news/:id/files", s.AddNewsFile)
	admin.POST("/news/:id/hashtags", s.AddNewsHashtag)

	admin.POST("/knowledge", s.CreateKnowledge)
	admin.PATCH("/knowledge/:id", s.UpdateKnowledge)
	admin.DELETE("/knowledge/:id", s.DeleteKnowledge)
	admin.POST("/knowledge/:id/materials", s.AddKnowledgeMaterial)

	admin.GET("/users", s.ListUsers)
	admin.POST("/users", s.CreateUser)
	admin.GET("/users/:id", s.GetUser)
	admin.PATCH("/users/:id", s.UpdateUser)
	admin.DELETE("/users/:id", s.DeleteUser)
}

func registerGin(log *zap.Logger, registry *prometheus.Registry) *gin.Engine {
	return NewEngine(log, registry)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)
