// Package server contains the go-gin-server construction and route table.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MekhyW/Link-AutoJourney/internal/config"
	"github.com/MekhyW/Link-AutoJourney/internal/controller"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// Server bundles everything the route table needs.
type Server struct {
	cfg   *config.Config
	ctrl  *controller.Controller
	store *storage.Store
	log   zerolog.Logger
}

// NewServer constructs the http.Server serving the dashboard API.
func NewServer(cfg *config.Config, ctrl *controller.Controller, store *storage.Store, log zerolog.Logger) *http.Server {
	s := &Server{
		cfg:   cfg,
		ctrl:  ctrl,
		store: store,
		log:   log,
	}

	return &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
