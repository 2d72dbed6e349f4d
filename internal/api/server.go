// Package api exposes the onboarding wizard and the public startup
// directory over HTTP.
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/profile"
	"startup-onboarding/internal/onboarding/wizard"
	"startup-onboarding/pkg/forms"
)

// ProfileReader is the read side of the profile service.
type ProfileReader interface {
	GetByUser(ctx context.Context, userID string) (*profile.StoredProfile, error)
	GetByID(ctx context.Context, id string) (*profile.StoredProfile, error)
	List(ctx context.Context) ([]profile.Summary, error)
}

// Searcher serves the directory's free-text search. Optional; without
// one the listing falls back to the database.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]profile.Summary, error)
}

// Server wires the HTTP routes to the wizard manager and the profile
// read paths.
type Server struct {
	echo     *echo.Echo
	sessions *wizard.Manager
	profiles ProfileReader
	search   Searcher
	registry *forms.StepRegistry
	logger   logger.Logger
}

func NewServer(sessions *wizard.Manager, profiles ProfileReader, search Searcher,
	resolver UserResolver, registry *forms.StepRegistry, log logger.Logger) *Server {

	if registry == nil {
		registry = forms.DefaultRegistry()
	}

	s := &Server{
		echo:     echo.New(),
		sessions: sessions,
		profiles: profiles,
		search:   search,
		registry: registry,
		logger:   log,
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(echomw.Recover())
	s.echo.Use(echomw.RequestID())

	s.routes(resolver)
	return s
}

func (s *Server) routes(resolver UserResolver) {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Public directory.
	s.echo.GET("/startups", s.handleListStartups)
	s.echo.GET("/startups/:id", s.handleGetStartup)
	s.echo.GET("/onboarding/schema", s.handleSchema)

	// Authenticated wizard session.
	g := s.echo.Group("/onboarding", requireUser(resolver))
	g.GET("/session", s.handleSession)
	g.PUT("/draft", s.handleUpdateDraft)
	g.POST("/session/next", s.handleNext)
	g.POST("/session/back", s.handleBack)
	g.POST("/session/submit", s.handleSubmit)
	g.POST("/founders", s.handleAddFounder)
	g.PUT("/founders/:index", s.handleUpdateFounder)
	g.DELETE("/founders/:index", s.handleRemoveFounder)

	me := s.echo.Group("/me", requireUser(resolver))
	me.GET("/startup", s.handleMyStartup)
}

// Start begins serving on the given address and blocks.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
