package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	adapthttp "caltrack/internal/adapter/http"
	"caltrack/internal/adapter/docstore"
	"caltrack/internal/adapter/identity"
	"caltrack/internal/adapter/memory"
	"caltrack/internal/adapter/postgres"
	"caltrack/internal/adapter/sqlitecache"
	"caltrack/internal/app"
	"caltrack/internal/config"
	"caltrack/internal/domain"
)

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "caltrack",
		Short: "Single-user calorie tracker with remote sync",
		Long: "caltrack keeps a per-day food log consistent across a local cache and a\n" +
			"remote document store, falling back to local-only operation when offline\n" +
			"or signed out.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "caltrack.yaml", "path to the YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the client and its presentation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	root.AddCommand(serve)
	return root
}

func run(ctx context.Context, cfg config.Config) error {
	cache, err := sqlitecache.Open(cfg.CachePath)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	logStore, profileStore, cleanup, err := openRemote(cfg.Remote)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := openIdentity(ctx, cfg.Identity, cache)
	if err != nil {
		return err
	}

	daylog := app.NewDayLogService(cache, logStore)
	profile := app.NewProfileService(cache, profileStore)
	ctrl := app.NewSessionController(source, profile, daylog)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := ctrl.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("session controller stopped: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	h := adapthttp.New(ctrl, daylog, profile, source, rng).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openRemote selects the remote document store. Without one configured the
// app runs against a per-process in-memory store, which keeps authenticated
// flows working in dev while persisting nothing beyond the local cache.
func openRemote(cfg config.RemoteConfig) (domain.LogStore, domain.ProfileStore, func(), error) {
	switch cfg.Mode {
	case config.RemoteDocstore:
		c := docstore.New(cfg.BaseURL, nil)
		return c, c, func() {}, nil
	case config.RemotePostgres:
		db, err := postgres.Open(cfg.PostgresURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return db, db, func() { _ = db.Close() }, nil
	default:
		mem := memory.New()
		return mem, mem, func() {}, nil
	}
}

func openIdentity(ctx context.Context, cfg config.IdentityConfig, cache *sqlitecache.Cache) (domain.IdentitySource, error) {
	switch cfg.Mode {
	case config.IdentityLocal:
		return identity.NewLocal(cache), nil
	case config.IdentityOIDC:
		return identity.NewOIDC(ctx, cfg.Issuer, cfg.ClientID, cfg.ClientSecret)
	default:
		return nil, nil
	}
}
