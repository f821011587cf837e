package main

import (
	"context"
	"fmt"
	"io"
	"jsonrpc-client/application/jsonrpc"
	"jsonrpc-client/application/rpc"
	"jsonrpc-client/application/util/domain"
	"jsonrpc-client/transport"
	"jsonrpc-client/transport/tcp"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	EnvVariableUser     = "RPC_USER"
	EnvVariablePassword = "RPC_PASSWORD"
)

type rootOpts struct {
	User     string
	Password string

	Method string
	Params string
	ID     string

	Timeout     time.Duration
	Count       int
	Concurrency int

	MetricsAddr string
	LogLevel    string
	ResultOnly  bool

	dialer   transport.ConnDialer
	lookuper domain.Lookuper
	clock    clock.Clock
}

func newRoot() *rootOpts {
	return &rootOpts{
		dialer:   &tcp.Dialer{},
		lookuper: domain.NewNetLookuper(nil),
		clock:    clock.New(),
	}
}

var rootLongHelp = strings.TrimSpace(`
jsonrpc-client posts a single JSON-RPC request to a node over plain HTTP/1.1
and prints the raw response body.

Examples:
  jsonrpc-client 127.0.0.1 8332                                   # getblockhash 0 as bitcoin:bitcoin
  jsonrpc-client -m getblock --params '["<hash>", 1]' node 8332   # any method, name resolved first
  RPC_USER=alice RPC_PASSWORD=secret jsonrpc-client ::1 18443 -r  # print only the result member
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "jsonrpc-client <server_ip> <server_port>",
		Long:         rootLongHelp,
		SilenceUsage: true,
		RunE:         opts.RunE,
	}
	opts.addFlags(cmd.Flags())

	return cmd
}

func (opts *rootOpts) addFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&opts.User, "user", "u", "bitcoin",
		fmt.Sprintf("rpc user; you can also set the environment variable %s", EnvVariableUser))
	flags.StringVarP(&opts.Password, "password", "p", "bitcoin",
		fmt.Sprintf("rpc password; you can also set the environment variable %s", EnvVariablePassword))

	flags.StringVarP(&opts.Method, "method", "m", "getblockhash", "method to call")
	flags.StringVar(&opts.Params, "params", "[0]", "params of the call, as a json array")
	flags.StringVar(&opts.ID, "id", "test", "id of the request")

	flags.DurationVarP(&opts.Timeout, "timeout", "t", rpc.DefaultOptions.Timeout, "limit for a single call; 0 means none")
	flags.IntVarP(&opts.Count, "count", "n", 1, "number of calls to make")
	flags.IntVarP(&opts.Concurrency, "concurrency", "c", 1, "number of calls in flight at once")

	flags.StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "one of debug, info, warn, error")
	flags.BoolVarP(&opts.ResultOnly, "result", "r", false, "print only the result member; fail on a non-null error member")
}

// applyEnv fills credentials from the environment unless set by flag.
func (opts *rootOpts) applyEnv(cmd *cobra.Command) {
	for _, v := range []struct {
		flag, env string
		dst       *string
	}{
		{"user", EnvVariableUser, &opts.User},
		{"password", EnvVariablePassword, &opts.Password},
	} {
		if value := os.Getenv(v.env); value != "" && !cmd.Flags().Changed(v.flag) {
			*v.dst = value
		}
	}
}

func (opts *rootOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errorWantedTwoArgs
	}
	if opts.Count < 1 || opts.Concurrency < 1 {
		return newUsageError("--count and --concurrency must be at least 1")
	}
	opts.applyEnv(cmd)

	logger, err := newLogger(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return err
	}

	params, err := jsonrpc.ParseParams(opts.Params)
	if err != nil {
		return newUsageError(err.Error())
	}
	body, err := jsonrpc.NewRequest(opts.ID, opts.Method, params...).Marshal()
	if err != nil {
		return errors.Wrap(err, "building request")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint, err := resolve(ctx, opts.lookuper, args[0], args[1])
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	if opts.MetricsAddr != "" {
		addr, stop, err := serveMetrics(opts.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stop()
		logger.Info("serving metrics", slog.String("addr", addr.String()))
	}

	rpcOpts := rpc.DefaultOptions
	rpcOpts.Timeout = opts.Timeout
	client := rpc.New(opts.dialer, logger, opts.clock, rpc.NewMetrics(reg), rpcOpts)
	creds := rpc.NewCredentials(opts.User, opts.Password)

	results := opts.callAll(ctx, client, endpoint, creds, body)

	if len(results) == 1 {
		return opts.print(cmd.OutOrStdout(), results[0])
	}

	failed := 0
	for i, res := range results {
		if err := opts.print(cmd.OutOrStdout(), res); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "call %d: %v\n", i, err)
			failed++
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d calls failed", failed, len(results))
	}

	return nil
}

type callResult struct {
	body []byte
	err  error
}

// callAll makes opts.Count independent calls, opts.Concurrency at a time.
// Results keep the order the calls were issued in.
func (opts *rootOpts) callAll(
	ctx context.Context,
	client *rpc.Client,
	endpoint transport.Addr,
	creds rpc.Credentials,
	body []byte,
) []callResult {
	results := make([]callResult, opts.Count)
	sem := make(chan struct{}, opts.Concurrency)

	var wg sync.WaitGroup
	for i := range results {
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i].body, results[i].err = client.Call(ctx, endpoint, creds, body)
		}()
	}
	wg.Wait()

	return results
}

func (opts *rootOpts) print(w io.Writer, res callResult) error {
	if res.err != nil {
		return res.err
	}

	out := res.body
	if opts.ResultOnly {
		response, err := jsonrpc.ParseResponse(res.body)
		if err != nil {
			return errors.Wrap(err, "parsing response")
		}
		if err := response.Err(); err != nil {
			return err
		}
		out = response.Result
	}

	if len(out) == 0 {
		return nil
	}

	_, err := fmt.Fprintf(w, "%s\n", out)
	return err
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, newUsageError(fmt.Sprintf("invalid log level %q", level))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
