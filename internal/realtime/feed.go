package realtime

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/plantd/plantd/pkg/logger"
)

const (
	initialRetryDelay = time.Second
	maxRetryDelay     = 60 * time.Second
	pingInterval      = 25 * time.Second
)

// Feed maintains a WebSocket subscription to the store's change feed,
// reconnecting with capped exponential backoff when the connection drops.
type Feed struct {
	url   string
	token string
	log   logger.Logger

	// dial is swapped out in tests.
	dial func(ctx context.Context) (*websocket.Conn, error)
}

// NewFeed creates a feed subscriber for the given store base URL, api key and
// session token.
func NewFeed(baseURL, apiKey, token string, l logger.Logger) *Feed {
	wsURL := strings.Replace(strings.TrimRight(baseURL, "/"), "http", "ws", 1) +
		"/realtime/v1/changes?table=plants&apikey=" + apiKey
	f := &Feed{url: wsURL, token: token, log: l}
	f.dial = f.dialStore
	return f
}

func (f *Feed) dialStore(ctx context.Context) (*websocket.Conn, error) {
	hdr := http.Header{}
	if f.token != "" {
		hdr.Set("Authorization", "Bearer "+f.token)
	}
	conn, _, err := websocket.Dial(ctx, f.url, &websocket.DialOptions{HTTPHeader: hdr})
	return conn, err
}

// Subscribe starts the feed and returns the event channel. The channel is
// closed when ctx is cancelled; connection drops are handled internally and
// never surface to the consumer.
func (f *Feed) Subscribe(ctx context.Context) <-chan ChangeEvent {
	events := make(chan ChangeEvent, 16)
	go f.run(ctx, events)
	return events
}

func (f *Feed) run(ctx context.Context, events chan<- ChangeEvent) {
	defer close(events)
	delay := initialRetryDelay
	for {
		conn, err := f.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.log.Warning("feed connect failed, retrying in %s: %v", delay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			if delay *= 2; delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			continue
		}
		f.log.Info("feed connected")
		delay = initialRetryDelay
		f.read(ctx, conn, events)
		conn.Close(websocket.StatusNormalClosure, "")
		if ctx.Err() != nil {
			return
		}
		f.log.Warning("feed disconnected, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(initialRetryDelay):
		}
	}
}

// read pumps frames from one connection until it fails or ctx is cancelled.
func (f *Feed) read(ctx context.Context, conn *websocket.Conn, events chan<- ChangeEvent) {
	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-pingCtx.Done():
				return
			case <-t.C:
				if err := conn.Ping(pingCtx); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		ev, err := decodeFrame(data)
		if err != nil {
			f.log.Warning("dropping feed frame: %v", err)
			continue
		}
		if ev == nil {
			continue // heartbeat
		}
		select {
		case events <- *ev:
		case <-ctx.Done():
			return
		}
	}
}
