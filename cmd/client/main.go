package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leaflock/leaflock/internal/adapter"
	"github.com/leaflock/leaflock/internal/config"
	"github.com/leaflock/leaflock/internal/crypto"
	"github.com/leaflock/leaflock/internal/items"
	"github.com/leaflock/leaflock/internal/logger"
	"github.com/leaflock/leaflock/internal/store"
	"github.com/leaflock/leaflock/internal/syncer"
	"github.com/leaflock/leaflock/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("leaflock-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect local database")
	}
	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate local database")
	}

	localStorage := store.NewLocalStorage(db)
	defer func() {
		if closeErr := localStorage.Close(); closeErr != nil {
			log.Err(closeErr).Msg("close local storage")
		}
	}()

	serverAdapter := adapter.NewHTTPServerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Server.HTTPBaseURL(),
		HashKey: cfg.App.HashKey,
		Timeout: cfg.Server.RequestTimeout,
	})

	crypter := crypto.NewPayloadCrypter(crypto.NewKeyChainService())
	itemManager := items.NewManager()

	manager := syncer.NewManager(crypter, localStorage, itemManager, serverAdapter, serverAdapter, log)
	manager.SetBatchLimits(cfg.Sync.UploadBatchLimit, cfg.Sync.DownloadPageLimit)

	registerObservers(ctx, manager, serverAdapter, localStorage, log)

	if session, sessErr := localStorage.GetSession(ctx); sessErr == nil {
		serverAdapter.SetToken(session.Token)
		log.Info().Str("email", session.Email).Msg("restored persisted session")
	} else if !errors.Is(sessErr, store.ErrSessionNotFound) {
		log.Fatal().Err(sessErr).Msg("restore session")
	}

	raw, err := manager.GetDatabasePayloads(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("read local payloads")
	}
	if err = manager.LoadDatabasePayloads(ctx, raw); err != nil {
		log.Fatal().Err(err).Msg("load local payloads")
	}

	workers.NewWorkers(
		workers.NewSyncWorker(manager, cfg.Sync.Interval, log),
	).Run(ctx)

	log.Info().Msg("shutting down")
}

// registerObservers wires the lifecycle events that need a reaction beyond
// logging: out-of-sync recovery and invalid-session cleanup.
func registerObservers(
	ctx context.Context,
	manager *syncer.Manager,
	serverAdapter adapter.ServerAdapter,
	localStorage store.LocalStorage,
	log *logger.Logger,
) {
	manager.AddEventObserver(func(event syncer.Event, _ any) {
		switch event {
		case syncer.EventEnterOutOfSync:
			log.Warn().Msg("local state diverged from server, starting recovery")
			// Recovery triggers its own sync; run it off the event
			// delivery path.
			go func() {
				if err := manager.ResolveOutOfSync(ctx); err != nil {
					log.Err(err).Msg("out-of-sync recovery failed")
				}
			}()
		case syncer.EventExitOutOfSync:
			log.Info().Msg("local state reconciled with server")
		case syncer.EventInvalidSession:
			log.Warn().Msg("server rejected the session, sign in again")
			serverAdapter.SetToken("")
			if err := localStorage.DeleteSession(ctx); err != nil {
				log.Err(err).Msg("drop persisted session")
			}
		case syncer.EventLocalDataLoaded:
			log.Info().Msg("local data loaded")
		}
	})
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
