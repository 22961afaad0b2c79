// Package server exposes the RAG service over HTTP.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/agentic/internal/agent"
	"github.com/ziadkadry99/agentic/internal/ingest"
	"github.com/ziadkadry99/agentic/internal/session"
	"github.com/ziadkadry99/agentic/internal/store"
)

// Config holds server configuration.
type Config struct {
	Host     string
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Querier answers similarity queries.
type Querier interface {
	Retrieve(ctx context.Context, query string, topK int, repository string) ([]store.Result, error)
}

// IngestFunc ingests a source tree into the index.
type IngestFunc func(ctx context.Context, path, repository string) (*ingest.Result, error)

// Server wires the RAG components behind a chi router.
type Server struct {
	cfg        Config
	store      store.Store
	querier    Querier
	agent      *agent.Agent
	sessions   session.Store
	ingestFn   IngestFunc
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all dependencies. ingestFn may be nil, in which
// case POST /ingest reports the feature as unavailable.
func New(cfg Config, st store.Store, querier Querier, ag *agent.Agent, sessions session.Store, ingestFn IngestFunc) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		querier:  querier,
		agent:    ag,
		sessions: sessions,
		ingestFn: ingestFn,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Post("/query", s.handleQuery)
	r.Post("/ingest", s.handleIngest)
	r.Get("/stats", s.handleStats)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("agentic server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
