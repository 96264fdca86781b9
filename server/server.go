package server

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-task-server/internal/config"
	"github.com/jrsteele09/go-task-server/internal/rate"
	"github.com/jrsteele09/go-task-server/invitations"
	"github.com/jrsteele09/go-task-server/session"
	"github.com/jrsteele09/go-task-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Deps holds the service dependencies the HTTP surface routes into.
type Deps struct {
	Sessions    *session.Service
	Invitations *invitations.Service
	Codec       *token.Codec
	Limiter     *rate.Limiter // nil disables login rate limiting
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *session.Service
	invites  *invitations.Service
	codec    *token.Codec
	limiter  *rate.Limiter
	logger   zerolog.Logger
	validate *validator.Validate
}

func New(cfg config.Config, deps Deps, logger zerolog.Logger) (*Server, error) {
	if deps.Sessions == nil {
		return nil, errors.New("[Server New] Sessions service is required")
	}
	if deps.Invitations == nil {
		return nil, errors.New("[Server New] Invitations service is required")
	}
	if deps.Codec == nil {
		return nil, errors.New("[Server New] Codec is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: deps.Sessions,
		invites:  deps.Invitations,
		codec:    deps.Codec,
		limiter:  deps.Limiter,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logger.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			s.logger.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}
