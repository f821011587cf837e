package rpc

import (
	"context"
	"fmt"
	"jsonrpc-client/transport"
	"jsonrpc-client/transport/tcp"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Client runs calls. Each call gets its own session and connection,
// so a Client is safe for concurrent use.
type Client struct {
	dialer  transport.ConnDialer
	logger  *slog.Logger
	clock   clock.Clock
	metrics Metrics

	opts Options
}

// New returns a client dialing with d.
// clock must be the clock the conns of d measure their deadlines with.
func New(
	d transport.ConnDialer,
	logger *slog.Logger,
	clock clock.Clock,
	metrics Metrics,
	opts Options,
) *Client {
	return &Client{
		dialer:  d,
		logger:  logger,
		clock:   clock,
		metrics: metrics,
		opts:    opts,
	}
}

// Call posts body to endpoint and returns the response body.
// A failed call returns an [*Error].
func (c *Client) Call(ctx context.Context, endpoint transport.Addr, creds Credentials, body []byte) (result []byte, err error) {
	defer func(begin time.Time) {
		c.observe(ctx, endpoint, creds, c.clock.Since(begin), len(result), err)
	}(c.clock.Now())

	callCtx := ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = c.clock.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	s := &session{
		dialer:   c.dialer,
		opts:     c.opts,
		endpoint: endpoint,
		creds:    creds,
		body:     body,
	}

	return s.run(callCtx)
}

func (c *Client) observe(
	ctx context.Context,
	endpoint transport.Addr,
	creds Credentials,
	took time.Duration,
	n int,
	err error,
) {
	c.metrics.CallDuration.With(LabelSuccess, fmt.Sprint(err == nil)).Observe(took.Seconds())

	if err == nil {
		c.logger.DebugContext(ctx, "call finished",
			slog.String("endpoint", endpoint.String()),
			slog.Any("creds", creds),
			slog.Duration("took", took),
			slog.Int("bytes", n),
		)
		return
	}

	kind := Kind(0)
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		kind = rpcErr.Kind
	}
	c.metrics.CallFailures.With(LabelKind, kind.label()).Add(1)

	c.logger.DebugContext(ctx, "call failed",
		slog.String("endpoint", endpoint.String()),
		slog.Any("creds", creds),
		slog.Duration("took", took),
		slog.String("kind", kind.label()),
		slog.Any("error", err),
	)
}

// Call runs a single call over TCP with [DefaultOptions].
func Call(ctx context.Context, endpoint transport.Addr, creds Credentials, body []byte) ([]byte, error) {
	c := New(
		&tcp.Dialer{},
		slog.New(slog.DiscardHandler),
		clock.New(),
		DiscardMetrics(),
		DefaultOptions,
	)
	return c.Call(ctx, endpoint, creds, body)
}
