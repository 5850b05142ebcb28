package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/store"
	"github.com/Onvitec/adminportal-onvitech-sub001/internal/worker"
)

// ApplicationHandler holds the shared dependencies of all HTTP handlers.
// Everything is injected here at startup; handlers never reach for globals.
type ApplicationHandler struct {
	Logger      *logrus.Logger
	DB          *supa.Client
	Store       *store.Store
	Validate    *validator.Validate
	Dispatcher  *worker.Dispatcher
	MediaBucket string
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(logger *logrus.Logger, db *supa.Client, st *store.Store, dispatcher *worker.Dispatcher, mediaBucket string) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:      logger,
		DB:          db,
		Store:       st,
		Validate:    validator.New(),
		Dispatcher:  dispatcher,
		MediaBucket: mediaBucket,
	}
}
