package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	adapthttp "tracker/internal/adapter/http"
	"tracker/internal/bootstrap"
	"tracker/internal/config"
	"tracker/internal/domain"
	"tracker/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Local state service for the activity tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newStatusCmd(&configPath))
	return root
}

func setup(configPath string) (config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	log, closer, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	return cfg, log, closer, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the local API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, logCloser, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logCloser.Close() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap.New(ctx, cfg, log)
			if err != nil {
				return err
			}

			srv := adapthttp.New(adapthttp.Stores{
				Session:    a.Session,
				Counter:    a.Counter,
				Activities: a.Activities,
				Theme:      a.Theme,
			}, cfg.WebDir, log)
			if cfg.OIDC.Enabled() {
				oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
				if err != nil {
					_ = a.Close(context.Background())
					return err
				}
				srv.WithOIDC(oidcCfg)
				log.Info().Str("issuer", cfg.OIDC.Issuer).Msg("sso enabled")
			}

			httpSrv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Msg("listening")
				errCh <- httpSrv.ListenAndServe()
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				log.Info().Msg("shutting down")
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					serveErr = err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("http shutdown")
			}
			return errors.Join(serveErr, a.Close(shutdownCtx))
		},
	}
}

type statusReport struct {
	Profile    *domain.Profile `yaml:"profile"`
	Counter    int64           `yaml:"counter"`
	Activities int             `yaml:"activities"`
	CachedAt   string          `yaml:"cached_at,omitempty"`
	DarkTheme  bool            `yaml:"dark_theme"`
	Driver     string          `yaml:"driver"`
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the persisted state as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, logCloser, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logCloser.Close() //nolint:errcheck

			ctx := cmd.Context()
			a, err := bootstrap.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background()) //nolint:errcheck

			profile, err := a.Session.CurrentProfile(ctx)
			if err != nil {
				return err
			}
			report := statusReport{
				Profile:    profile,
				Counter:    a.Counter.Value(),
				Activities: a.Activities.Len(),
				DarkTheme:  a.Theme.IsDark(),
				Driver:     cfg.StoreDriver,
			}
			if ts, ok := a.Activities.CacheTimestamp(ctx); ok {
				report.CachedAt = ts.UTC().Format(time.RFC3339)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
