// Package http contains the fiber handlers for the public API.
package http

import (
	"log/slog"

	"gorm.io/gorm"

	"devconnect/internal/config"
	"devconnect/internal/github"
)

// API bundles the dependencies the handlers need. Everything is constructed up
// front and passed in; there is no global mutable state.
type API struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *slog.Logger
	Github *github.Client
}

// NewAPI creates the handler set.
func NewAPI(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *API {
	return &API{
		DB:     db,
		Cfg:    cfg,
		Logger: logger,
		Github: github.NewClient(cfg, logger),
	}
}
