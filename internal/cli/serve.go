package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/aretw0/knockknock"
	"github.com/aretw0/knockknock/pkg/content"
	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/aretw0/knockknock/pkg/observability"
	"github.com/aretw0/knockknock/pkg/server"
)

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	Host        string
	Port        int
	ContentPath string // Empty uses the built-in table
	Repeat      string // "", "skip" or "reopen"
	MetricsAddr string // Empty disables the metrics endpoint
	IdleTimeout time.Duration
	MaxLineSize int // Zero or less disables the limit
	LogLevel    string
	Banner      bool
}

// Addr returns the listen address.
func (o ServeOptions) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// LoadTable resolves the content table from the options.
func (o ServeOptions) LoadTable() (domain.Table, error) {
	table := content.Default()
	if o.ContentPath != "" {
		var err error
		table, err = content.Load(o.ContentPath)
		if err != nil {
			return domain.Table{}, err
		}
	}

	if o.Repeat != "" {
		p := domain.RepeatPolicy(o.Repeat)
		if !p.Valid() {
			return domain.Table{}, fmt.Errorf("invalid --repeat %q: must be \"skip\" or \"reopen\"", o.Repeat)
		}
		table = table.Clone()
		table.Repeat = p
	}
	return table, nil
}

// NewServer builds the session driver described by opts.
// metrics may be nil.
func NewServer(opts ServeOptions, logger *slog.Logger, metrics *observability.Metrics) (*server.Server, error) {
	table, err := opts.LoadTable()
	if err != nil {
		return nil, err
	}

	hooks := []domain.LifecycleHooks{createDebugHooks(logger)}
	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithEngineOptions(knockknock.WithTable(table)),
		server.WithIdleTimeout(opts.IdleTimeout),
		server.WithMaxLineSize(opts.MaxLineSize),
	}
	if metrics != nil {
		hooks = append(hooks, metrics.Hooks())
		srvOpts = append(srvOpts, server.WithObserver(metrics))
	}
	srvOpts = append(srvOpts, server.WithLifecycleHooks(chainHooks(hooks...)))

	return server.New(opts.Addr(), srvOpts...), nil
}

// RunServe serves one session and returns once it is over.
func RunServe(opts ServeOptions) error {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	if opts.Banner {
		PrintBanner(knockknock.Version)
	}

	var metrics *observability.Metrics
	if opts.MetricsAddr != "" {
		metrics = observability.NewMetrics()
	}

	srv, err := NewServer(opts, logger, metrics)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if metrics != nil {
		metricsCtx, stopMetrics := context.WithCancel(sigCtx)
		metricsDone := make(chan struct{})
		go func() {
			defer close(metricsDone)
			if err := observability.Serve(metricsCtx, opts.MetricsAddr, metrics, logger); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		defer func() {
			stopMetrics()
			<-metricsDone
		}()
	}

	res, err := srv.Serve(sigCtx)
	if sig := sigCtx.Signal(); sig != nil {
		logger.Info("received signal", "signal", sig.String())
		return nil
	}
	if err != nil {
		// A client hanging up is the client's business; the server still
		// shuts down cleanly.
		if errors.Is(err, server.ErrClientGone) {
			return nil
		}
		return err
	}

	logger.Info("session complete",
		"session_id", res.SessionID,
		"turns", res.Turns,
		"rounds", res.Rounds,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return nil
}
