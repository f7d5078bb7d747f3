package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MKhiriev/go-clip-sync/internal/auth"
	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/crypto"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/remote"
	"github.com/MKhiriev/go-clip-sync/internal/service"
	"github.com/MKhiriev/go-clip-sync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("clip-sync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, err := crypto.NewTokenVault(filepath.Join(cfg.App.DataDir, "master.key"))
	if err != nil {
		log.Fatal().Err(err).Msg("create token vault")
	}

	creds := auth.NewCredentialManager(auth.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
		Scopes:       cfg.OAuth.Scopes,
		TokenPath:    filepath.Join(cfg.App.DataDir, "tokens.enc"),
	}, vault, log)

	remoteStore, err := newRemoteStore(ctx, cfg, creds)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store")
	}

	db, err := store.NewConnectSQLite(ctx, cfg.App.DBPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect local database")
	}
	defer db.Close()
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate local database")
	}

	deviceID, err := store.LoadOrCreateDeviceID(cfg.App.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load device identity")
	}

	orch := service.NewSyncOrchestrator(service.Deps{
		Credentials:  creds,
		Remote:       remoteStore,
		Items:        store.NewItemRepository(db, log),
		Manifests:    store.NewFileManifestStore(cfg.App.DataDir),
		Settings:     store.NewFileSettingsStore(cfg.App.DataDir),
		DeviceID:     deviceID,
		Provider:     cfg.Remote.Provider,
		DataDir:      cfg.App.DataDir,
		SyncInterval: cfg.Sync.Interval,
		Debounce:     cfg.Sync.Debounce,
		Logger:       log,
	})
	defer orch.Close()

	states := orch.Subscribe()
	defer orch.Unsubscribe(states)
	go func() {
		for state := range states {
			log.Info().
				Str("status", string(state.Status)).
				Str("error", state.Error).
				Bool("authenticated", state.IsAuthenticated).
				Msg("sync state changed")
		}
	}()

	if !creds.IsAuthenticated() {
		if err = orch.Login(ctx); err != nil {
			log.Fatal().Err(err).Msg("login failed")
		}
	} else if err = orch.SyncNow(ctx); err != nil {
		log.Warn().Err(err).Msg("initial sync pass failed")
	}

	log.Info().Str("provider", cfg.Remote.Provider).Msg("clip-sync running")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

func newRemoteStore(ctx context.Context, cfg *config.Config, creds auth.CredentialManager) (remote.RemoteStore, error) {
	switch cfg.Remote.Provider {
	case "s3":
		return remote.NewS3RemoteStore(ctx, remote.S3StoreConfig{
			Bucket: cfg.Remote.Bucket,
			Region: cfg.Remote.Region,
			Prefix: cfg.Remote.Folder,
		}, creds)
	default:
		return remote.NewHTTPRemoteStore(remote.HTTPStoreConfig{
			BaseURL: cfg.Remote.BaseURL,
			Folder:  cfg.Remote.Folder,
			Timeout: cfg.Remote.RequestTimeout,
		}, creds), nil
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
