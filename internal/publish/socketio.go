// Package publish streams resolved plans to a socket.io server so that
// workers listening on the namespace can pick up their level assignments.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/gridlevels/internal/ctxlog"
	"github.com/vk/gridlevels/internal/plan"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	defaultEvent          = "levels"
	defaultConnectTimeout = 15 * time.Second
	defaultFlushDelay     = 250 * time.Millisecond
)

// Config describes where and how a plan is published.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	// ConnectTimeout bounds the wait for the initial connection.
	ConnectTimeout time.Duration
	// FlushDelay is how long the client stays connected after emitting.
	FlushDelay time.Duration
}

// SocketIO publishes plans over a short-lived socket.io connection.
type SocketIO struct {
	cfg     Config
	baseURL string
	path    string
}

// NewSocketIO validates the configuration and returns a publisher. No
// connection is made until Publish is called.
func NewSocketIO(cfg Config) (*SocketIO, error) {
	if cfg.URL == "" {
		return nil, errors.New("socket.io URL is required")
	}
	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("socket.io URL %q must include a scheme and host", cfg.URL)
	}
	if cfg.Event == "" {
		cfg.Event = defaultEvent
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = defaultFlushDelay
	}
	return &SocketIO{
		cfg:     cfg,
		baseURL: fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		path:    parsedURL.Path,
	}, nil
}

// Name identifies the publisher in logs.
func (p *SocketIO) Name() string { return "socketio" }

// Publish connects, emits the plan as a single event and disconnects.
func (p *SocketIO) Publish(ctx context.Context, pl *plan.Plan) error {
	logger := ctxlog.FromContext(ctx).With("sink", p.Name(), "url", p.cfg.URL, "event", p.cfg.Event)

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if p.cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.cfg.Namespace, opts)
	defer func() {
		logger.Debug("Disconnecting socket client")
		io.Disconnect()
	}()

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- connectError(errs)
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	timer := time.NewTimer(p.cfg.ConnectTimeout)
	defer timer.Stop()
	select {
	case err := <-connectChan:
		if err != nil {
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("timed out after %s waiting for socket.io connection", p.cfg.ConnectTimeout)
	}

	logger.Info("Emitting plan", "levels", len(pl.Levels), "items", pl.Count())
	io.Emit(p.cfg.Event, pl)

	return waitFlush(ctx, p.cfg.FlushDelay)
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(args []any) error {
	if len(args) == 0 {
		return errors.New("connect_error without details")
	}
	if err, ok := args[0].(error); ok && err != nil {
		return err
	}
	return fmt.Errorf("%v", args[0])
}

// waitFlush keeps the connection open for d so the emitted packet is
// written out.
func waitFlush(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while flushing plan: %w", ctx.Err())
	}
}
