package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/plantd/plantd/internal/alert"
	"github.com/plantd/plantd/internal/api"
	"github.com/plantd/plantd/internal/config"
	"github.com/plantd/plantd/internal/engine"
	"github.com/plantd/plantd/internal/ledger"
	"github.com/plantd/plantd/internal/realtime"
	"github.com/plantd/plantd/internal/reconcile"
	"github.com/plantd/plantd/internal/remote"
	"github.com/plantd/plantd/internal/server"
	"github.com/plantd/plantd/pkg/credman"
	"github.com/plantd/plantd/pkg/credman/keyring"
	"github.com/plantd/plantd/pkg/logger"
	"github.com/spf13/afero"
)

// DaemonComponents holds all initialized daemon components. This allows
// for unified initialization and cleanup regardless of how the daemon was
// started.
type DaemonComponents struct {
	Config *config.Config
	Ledger *ledger.Ledger
	Store  *remote.Client
	Engine *engine.Engine
	Api    *api.Api
	Server *server.Server

	engineCancel context.CancelFunc
	logger       logger.Logger
	stdLogger    *log.Logger
}

// Close releases all daemon component resources in reverse order of
// initialization.
func (c *DaemonComponents) Close() {
	if c.stdLogger != nil {
		c.stdLogger.Println("Shutting down daemon...")
	}

	// Close API (stops the watering session)
	if c.Api != nil {
		_ = c.Api.Close()
	}

	// Stop the engine loop
	if c.engineCancel != nil {
		c.engineCancel()
	}

	// Close the alert ledger
	if c.Ledger != nil {
		_ = c.Ledger.Close()
	}

	if c.stdLogger != nil {
		c.stdLogger.Println("Daemon stopped")
	}
}

// initDaemonComponents initializes all daemon components with the provided
// logger. Returns the initialized components or an error if initialization
// fails.
//
// On error, any partially initialized components are cleaned up before
// returning.
var initDaemonComponents = func(lg logger.Logger, port int) (*DaemonComponents, error) {
	stdLog := logger.ToStdLogger(lg)
	fs := afero.NewOsFs()

	dir, err := config.Dir()
	if err != nil {
		lg.Error("Config directory lookup failed: %v", err)
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		lg.Error("Config directory creation failed: %v", err)
		return nil, err
	}
	cfg, err := config.Load(fs, dir)
	if err != nil {
		lg.Error("Config load failed: %v", err)
		return nil, err
	}

	// Session credentials are encrypted at rest with a key held in the
	// system keyring.
	key, err := keyring.NewKeyring().GetOrCreateKey()
	if err != nil {
		lg.Error("Keyring initialization failed: %v", err)
		return nil, err
	}
	sessions := credman.NewSessionManager(fs, filepath.Join(dir, "session.plantd"), key)

	led, err := ledger.Open(filepath.Join(cfg.DataDir, "markers.db"))
	if err != nil {
		lg.Error("Ledger initialization failed: %v", err)
		return nil, err
	}

	store := remote.NewClient(&http.Client{}, cfg.StoreURL, cfg.APIKey)

	gate := alert.NewGate(func() bool { return cfg.AlertsEnabled })
	alerts := alert.NewGatedSink(alert.NewDesktopSink(lg), gate)
	rec := reconcile.New(led, alerts, lg)

	feed := func(ctx context.Context) <-chan realtime.ChangeEvent {
		f := realtime.NewFeed(cfg.StoreURL, cfg.APIKey, store.Token(), lg)
		return f.Subscribe(ctx)
	}

	pool := server.NewPool(stdLog)
	rpcNotifier := server.NewRPCNotifier(stdLog)
	notify := api.NewNotify(pool, rpcNotifier)

	eng := engine.New(engine.Options{
		Store:        store,
		Reconciler:   rec,
		Feed:         feed,
		Notifier:     notify,
		Log:          lg,
		PollInterval: cfg.PollInterval(),
	})
	engineCtx, engineCancel := context.WithCancel(context.Background())
	go eng.Run(engineCtx)

	a := api.NewApi(stdLog, eng, store, sessions, notify, currentBuildArgs.Version)

	// Websocket RPC bridge; an empty secret means RPC is disabled.
	var ws *server.WebServer
	if cfg.RPCPort > 0 && cfg.RPCSecret != "" {
		rpc := server.NewRPCServer(&server.RPCConfig{
			Secret:    cfg.RPCSecret,
			Version:   currentBuildArgs.Version,
			BuildType: currentBuildArgs.BuildType,
		}, a, rpcNotifier)
		ws = server.NewWebServer(stdLog, rpc, cfg.RPCPort)
	}

	serv := server.NewServer(stdLog, pool, ws, port)
	a.RegisterHandlers(serv)

	// Bring a saved session back up, if there is one.
	if err := a.Restore(context.Background()); err != nil {
		if !errors.Is(err, credman.ErrNoSession) {
			lg.Warning("Session restore failed: %v", err)
		}
	}

	return &DaemonComponents{
		Config:       cfg,
		Ledger:       led,
		Store:        store,
		Engine:       eng,
		Api:          a,
		Server:       serv,
		engineCancel: engineCancel,
		logger:       lg,
		stdLogger:    stdLog,
	}, nil
}
