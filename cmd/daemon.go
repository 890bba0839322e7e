package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/daemon"
	"github.com/plantd/plantd/pkg/logger"
	"github.com/urfave/cli"
)

var (
	daemonPort int

	daemonFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "port, p",
			Usage:       "TCP fallback port for client connections",
			Value:       common.DefaultTCPPort,
			Destination: &daemonPort,
		},
	}
)

func daemonCmd(ctx *cli.Context) error {
	lg := logger.NewStandardLogger(log.Default())
	defer lg.Close()

	comps, err := initDaemonComponents(lg, daemonPort)
	if err != nil {
		printRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}
	defer comps.Close()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := daemon.New(&daemon.Config{
		ServiceName:     daemon.DefaultServiceName,
		ShutdownTimeout: 10 * time.Second,
	}, &daemon.Dependencies{
		ShutdownFunc: comps.Server.Shutdown,
	})

	go func() {
		if err := comps.Server.Start(runCtx); err != nil {
			comps.stdLogger.Println("Server stopped:", err.Error())
			cancel()
			if serr := runner.Shutdown(); serr != nil && !errors.Is(serr, daemon.ErrNotRunning) {
				comps.stdLogger.Println("Shutdown error:", serr.Error())
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		comps.stdLogger.Println("Received signal:", s.String())
		cancel()
		if serr := runner.Shutdown(); serr != nil && !errors.Is(serr, daemon.ErrNotRunning) {
			comps.stdLogger.Println("Shutdown error:", serr.Error())
		}
	}()

	comps.stdLogger.Println("Daemon started")
	if err := runner.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		printRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}
