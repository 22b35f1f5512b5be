package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/admin"
	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app bundles what the client commands share.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	client *api.Client
}

// newApp loads the client configuration and builds the logger and API client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiURLFlag != "" {
		cfg.APIURL = apiURLFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	client := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithLogger(logger))
	return &app{cfg: cfg, logger: logger, client: client}, nil
}

// openSession restores the persisted admin session.
func (a *app) openSession() (*session.Session, error) {
	path := a.cfg.SessionFile
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return session.Open(session.NewFileStore(path))
}

// controller builds an admin controller over the persisted session.
func (a *app) controller(opts ...admin.Option) (*admin.Controller, error) {
	sess, err := a.openSession()
	if err != nil {
		return nil, err
	}
	opts = append([]admin.Option{admin.WithLogger(a.logger)}, opts...)
	return admin.New(a.client, sess, opts...), nil
}

// adminError shortens errors caused by a rejected session to the message the user acts on.
func adminError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, admin.ErrSessionInvalid):
		return admin.ErrSessionInvalid
	case errors.Is(err, admin.ErrNotAuthenticated):
		return fmt.Errorf("%w: run 'resume_builder admin login' first", err)
	}
	return err
}
