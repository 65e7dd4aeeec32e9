// Package admin exposes the authorized HTTP administration API: tracked
// users, the fence registry, live engine settings, and device command sync.
package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"geofence-control-plane/internal/command"
	"geofence-control-plane/internal/engine"
	georepo "geofence-control-plane/internal/geofence/repository"
	"geofence-control-plane/internal/settings"
	trackerrepo "geofence-control-plane/internal/tracker/repository"
)

// Server holds the admin API dependencies.
type Server struct {
	users     trackerrepo.Store
	fences    georepo.Registry
	settings  *settings.Store
	engine    *engine.Engine
	publisher command.Publisher
	secret    []byte
	issuer    string
}

// NewServer returns an admin Server. publisher may be nil; command requests
// then build but do not publish.
func NewServer(users trackerrepo.Store, fences georepo.Registry, st *settings.Store,
	eng *engine.Engine, publisher command.Publisher, secret []byte, issuer string) *Server {
	return &Server{
		users: users, fences: fences, settings: st,
		engine: eng, publisher: publisher, secret: secret, issuer: issuer,
	}
}

// Router builds the gin router. All /api routes require an owner bearer
// token; /healthz is open.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", requireOwner(s.secret, s.issuer))
	api.GET("/users", s.listUsers)
	api.DELETE("/users", s.purgeUsers)
	api.DELETE("/users/:user", s.purgeUser)
	api.GET("/fences", s.listFences)
	api.GET("/settings", s.getSettings)
	api.PUT("/settings", s.putSettings)
	api.POST("/devices/:user/:device/commands", s.sendCommand)

	return r
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) purgeUser(c *gin.Context) {
	name := c.Param("user")
	if err := s.users.Delete(c.Request.Context(), name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("admin: purged user data for %s", name)
	c.Status(http.StatusNoContent)
}

func (s *Server) purgeUsers(c *gin.Context) {
	if err := s.users.DeleteAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Print("admin: purged all user data")
	c.Status(http.StatusNoContent)
}

func (s *Server) listFences(c *gin.Context) {
	fences, err := s.fences.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fences": fences})
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settings.Current())
}

func (s *Server) putSettings(c *gin.Context) {
	var in settings.Settings
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.AccuracyThreshold <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accuracyThreshold must be positive"})
		return
	}
	prev := s.settings.Update(in)
	log.Printf("admin: settings changed from %+v to %+v", prev, in)
	c.JSON(http.StatusOK, in)
}

type commandRequest struct {
	Action string `json:"action" binding:"required"`
}

func (s *Server) sendCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd, err := s.engine.BuildCommand(c.Request.Context(), req.Action)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cmd.Type == "" {
		// Unknown action: the builder contract is a no-op, not an error.
		c.Status(http.StatusNoContent)
		return
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(c.Request.Context(), c.Param("user"), c.Param("device"), cmd); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusAccepted, cmd)
}
