package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-leadform/components/collector"
	"github.com/goliatone/go-leadform/internal/storage/sqlite"
	"github.com/goliatone/go-leadform/internal/telemetry"
	"github.com/goliatone/go-leadform/pkg/transport"

	leadformcomponent "github.com/goliatone/go-leadform/components/leadform"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr          string
		basePath      string
		endpoint      string
		collectorPath string
		submitTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lead form and the reference collector",
		Long: `Serve the lead form over HTTP together with the reference form collector.

Leads are posted to --endpoint. When it is empty they go to the embedded
collector, which validates them and stores them in the SQLite database.`,
		Example: `  # Three-step flow on :8080 with the embedded collector
  leadform serve

  # Two-step flow under /quote, posting to an external form backend
  leadform serve --variant two-step --base-path /quote --endpoint https://forms.example.com/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("addr") {
				a.cfg.Addr = addr
			}
			if flags.Changed("base-path") {
				a.cfg.BasePath = basePath
			}
			if flags.Changed("endpoint") {
				a.cfg.Endpoint = endpoint
			}
			if flags.Changed("collector-path") {
				a.cfg.CollectorPath = collectorPath
			}
			if flags.Changed("submit-timeout") {
				a.cfg.SubmitTimeout = submitTimeout
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&basePath, "base-path", "/", "path the lead form is mounted under")
	f.StringVar(&endpoint, "endpoint", "", "form-collection endpoint; empty uses the embedded collector")
	f.StringVar(&collectorPath, "collector-path", "/forms", "path of the embedded collector")
	f.DurationVar(&submitTimeout, "submit-timeout", 10*time.Second, "timeout for one lead submission")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, "leadform", a.cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	variant, err := a.cfg.LeadformConfig()
	if err != nil {
		return err
	}

	store, err := sqlite.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ln, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Addr, err)
	}

	mux := http.NewServeMux()
	collectorPattern, err := collector.New(
		collector.WithRoutePath(a.cfg.CollectorPath),
		collector.WithStore(store),
		collector.WithLogger(a.logger.Named("collector")),
	).RegisterRoutes(mux, "/")
	if err != nil {
		_ = ln.Close()
		return err
	}

	// Server-side submissions need an absolute URL; the browser-side
	// redirect of the two-step variant can stay relative.
	serverEndpoint, browserEndpoint := a.cfg.Endpoint, a.cfg.Endpoint
	if strings.TrimSpace(a.cfg.Endpoint) == "" {
		serverEndpoint = "http://" + ln.Addr().String() + collectorPattern
		browserEndpoint = collectorPattern
	}

	adapter := transport.NewHTTPAdapter(serverEndpoint,
		transport.WithTimeout(a.cfg.SubmitTimeout),
		transport.WithLogger(a.logger.Named("transport")),
	)
	component := leadformcomponent.New(
		leadformcomponent.WithConfig(variant),
		leadformcomponent.WithAdapter(adapter),
		leadformcomponent.WithEndpoint(browserEndpoint),
		leadformcomponent.WithLocale(a.cfg.Locale),
		leadformcomponent.WithSessionTTL(a.cfg.SessionTTL),
		leadformcomponent.WithLogger(a.logger.Named("leadform")),
	)
	formPattern, err := component.RegisterRoutes(mux, a.cfg.BasePath)
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	a.logger.Info("serving lead form",
		zap.String("addr", ln.Addr().String()),
		zap.String("form", formPattern),
		zap.String("collector", collectorPattern),
		zap.String("variant", variant.Name),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
