package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// WebServer exposes the JSON-RPC bridge over HTTP: plain POST requests go
// through the jhttp bridge, and WebSocket upgrades get a jrpc2 server with
// push notifications enabled. Both are gated by the bearer token.
type WebServer struct {
	port   int
	l      *log.Logger
	rpc    *RPCServer
	server *http.Server
	mu     sync.Mutex
}

func NewWebServer(l *log.Logger, rpc *RPCServer, port int) *WebServer {
	return &WebServer{port: port, l: l, rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(s.rpc.secret, http.HandlerFunc(s.serveRPC)))
	return mux
}

func (s *WebServer) serveRPC(w http.ResponseWriter, r *http.Request) {
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		s.serveWS(w, r)
		return
	}
	s.rpc.bridge.ServeHTTP(w, r)
}

// serveWS upgrades the connection and runs a dedicated jrpc2 server on it
// until the client disconnects. The server is registered with the notifier
// for the lifetime of the connection so it receives push broadcasts.
func (s *WebServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		if s.l != nil {
			s.l.Println("Error accepting websocket:", err.Error())
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := &wsChannel{conn: conn, ctx: ctx}

	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)
	if s.rpc.notifier != nil {
		s.rpc.notifier.Register(srv)
		defer s.rpc.notifier.Unregister(srv)
	}
	_ = srv.Wait()
}

func (s *WebServer) addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	s.mu.Unlock()

	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
