package cmd

import (
	"context"
	"log"
	"testing"

	"github.com/plantd/plantd/pkg/logger"
)

func TestDaemonComponentsCloseEmpty(t *testing.T) {
	// Close must tolerate partially initialized components.
	c := &DaemonComponents{}
	c.Close()
}

func TestDaemonComponentsCloseStdLogger(t *testing.T) {
	mock := logger.NewMockLogger()
	c := &DaemonComponents{
		logger:    mock,
		stdLogger: log.New(testWriter{t}, "", 0),
	}
	c.Close()
}

func TestDaemonComponentsCloseCancelsEngine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &DaemonComponents{engineCancel: cancel}
	c.Close()
	select {
	case <-ctx.Done():
	default:
		t.Fatal("engine context not canceled")
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
