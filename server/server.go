// Package server is the JSON API in front of the library back end.
package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-library-server/authen"
	"github.com/jrsteele09/go-library-server/catalog"
	"github.com/jrsteele09/go-library-server/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	authen *authen.Authenticator
	books  catalog.BookRepo
	circ   *catalog.Circulation
	logger zerolog.Logger
}

func New(cfg config.Config, authenticator *authen.Authenticator, books catalog.BookRepo, circ *catalog.Circulation) (*Server, error) {
	if authenticator == nil {
		return nil, fmt.Errorf("[server.New] authenticator is required")
	}
	if books == nil {
		return nil, fmt.Errorf("[server.New] book repo is required")
	}
	if circ == nil {
		return nil, fmt.Errorf("[server.New] circulation service is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		authen: authenticator,
		books:  books,
		circ:   circ,
		logger: log.With().Str("component", "server").Logger(),
	}
	s.env = cfg.GetEnv()
	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteHandler adds a route to the mux and remembers it for the
// startup route listing.
func (s *Server) RegisterRouteHandler(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered route patterns.
func (s *Server) Routes() []string {
	return s.routes
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.Routes() {
		s.logger.Info().Str("route", route).Msg("registered")
	}
}
