// Package api wires the session engine to the daemon's client transports.
// It implements the request handlers for the framed socket protocol and the
// service surface consumed by the JSON-RPC bridge.
package api

import (
	"context"
	"log"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/engine"
	"github.com/plantd/plantd/internal/remote"
	"github.com/plantd/plantd/internal/server"
	"github.com/plantd/plantd/pkg/credman"
	"github.com/plantd/plantd/pkg/plantlib"
)

// Engine is the subset of the session engine the api layer uses.
type Engine interface {
	StartSession(ctx context.Context) error
	StopSession() error
	Snapshot() ([]*plantlib.Plant, error)
	Get(id string) (*plantlib.Plant, error)
	Focus(id string) error
	Status() (engine.Status, error)
	AddPlant(ctx context.Context, p *plantlib.Plant) (*plantlib.Plant, error)
	RemovePlant(ctx context.Context, id string) error
	Water(ctx context.Context, id string) (*plantlib.Plant, error)
	UpdatePlant(ctx context.Context, id string, fields map[string]any) (*plantlib.Plant, error)
	SetSchedule(ctx context.Context, id string, entries []string) (*plantlib.Plant, error)
}

// AuthClient is the subset of the remote store client used for sessions.
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (*remote.Session, error)
	SetToken(token string)
}

type Api struct {
	log      *log.Logger
	eng      Engine
	auth     AuthClient
	sessions *credman.SessionManager
	notify   *Notify
	version  string

	userId string
	email  string
}

func NewApi(l *log.Logger, eng Engine, auth AuthClient, sessions *credman.SessionManager, notify *Notify, version string) *Api {
	return &Api{
		log:      l,
		eng:      eng,
		auth:     auth,
		sessions: sessions,
		notify:   notify,
		version:  version,
	}
}

// RegisterHandlers binds the socket protocol methods.
func (s *Api) RegisterHandlers(srv *server.Server) {
	// plant API methods
	srv.RegisterHandler(common.UPDATE_LIST, s.listHandler)
	srv.RegisterHandler(common.UPDATE_GET, s.getHandler)
	srv.RegisterHandler(common.UPDATE_ADD, s.addHandler)
	srv.RegisterHandler(common.UPDATE_REMOVE, s.removeHandler)
	srv.RegisterHandler(common.UPDATE_WATER, s.waterHandler)
	srv.RegisterHandler(common.UPDATE_EDIT, s.editHandler)
	srv.RegisterHandler(common.UPDATE_SCHEDULE, s.scheduleHandler)
	srv.RegisterHandler(common.UPDATE_FOCUS, s.focusHandler)
	srv.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)

	// session and daemon methods
	srv.RegisterHandler(common.UPDATE_LOGIN, s.loginHandler)
	srv.RegisterHandler(common.UPDATE_LOGOUT, s.logoutHandler)
	srv.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}

// Restore brings a saved session back up after a daemon restart.
func (s *Api) Restore(ctx context.Context) error {
	saved, err := s.sessions.Load()
	if err != nil {
		return err
	}
	s.auth.SetToken(saved.AccessToken)
	s.userId = saved.UserId
	s.email = saved.Email
	if err := s.eng.StartSession(ctx); err != nil {
		s.log.Printf("Session restore: initial sync failed, retrying: %v", err)
	}
	return nil
}

func (s *Api) Close() error {
	return s.eng.StopSession()
}
