package main

import (
	"context"
	"io"
	"jsonrpc-client/application/rpc"
	"jsonrpc-client/transport/pipe"
	"log/slog"
	"net/http"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := rpc.New(
		pipe.NewPipeTransport(clock.NewMock()),
		slog.New(slog.DiscardHandler),
		clock.NewMock(),
		rpc.NewMetrics(reg),
		rpc.DefaultOptions,
	)

	// Nobody listens, so this is counted as a connect failure.
	_, err := client.Call(context.Background(), pipe.Addr{Name: "nobody"}, rpc.NewCredentials("a", "b"), nil)
	require.ErrorIs(t, err, rpc.ErrConnect)

	addr, stop, err := serveMetrics("127.0.0.1:0", reg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer stop()

	httpClient := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	res, err := httpClient.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(b), `jsonrpc_client_call_failures_total{kind="connect"} 1`)
	assert.Contains(t, string(b), `jsonrpc_client_call_duration_seconds_count{success="false"} 1`)
}

func TestServeMetricsAddrInUse(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.DiscardHandler)

	addr, stop, err := serveMetrics("127.0.0.1:0", reg, logger)
	require.NoError(t, err)
	defer stop()

	_, _, err = serveMetrics(addr.String(), reg, logger)
	assert.Error(t, err)
}
