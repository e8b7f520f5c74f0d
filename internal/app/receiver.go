package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/chargily-pay/internal/config"
	"github.com/Adda-Baaj/chargily-pay/internal/logger"
	"github.com/Adda-Baaj/chargily-pay/internal/server"
	"github.com/Adda-Baaj/chargily-pay/internal/storage"
	"github.com/Adda-Baaj/chargily-pay/pkg/chargily"
	"github.com/Adda-Baaj/chargily-pay/pkg/publishers"
)

// Receiver represents the webhook receiver runtime. It owns the HTTP server,
// the publisher fanout and the dedup store, and releases them on shutdown.
type Receiver struct {
	cfg    *config.Config
	fanout *publishers.Fanout
	store  storage.Store
	server *server.Server
	http   *http.Server
	log    logger.Logger
}

// NewReceiver builds a receiver runtime from config.
func NewReceiver(ctx context.Context, cfg *config.Config, log logger.Logger) (*Receiver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.RequireSecretKey(); err != nil {
		return nil, err
	}

	mode, err := chargily.ParseMode(cfg.ChargilyMode)
	if err != nil {
		return nil, err
	}
	opts := []chargily.Option{chargily.WithMode(mode), chargily.WithTimeout(cfg.HTTPTimeout)}
	if cfg.ChargilyBaseURL != "" {
		opts = append(opts, chargily.WithBaseURL(cfg.ChargilyBaseURL))
	}
	client, err := chargily.New(cfg.ChargilySecretKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("init chargily client: %w", err)
	}
	log.InfoObj("chargily account configured", "chargily_meta", map[string]any{
		"mode":     client.Mode(),
		"base_url": client.BaseURL(),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		EventTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"event_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	srv, err := server.New(server.Options{
		WebhookPath:  cfg.WebhookPath,
		MaxBodyBytes: cfg.MaxBodyBytes,
		SecretKey:    client.WebhookSecret(),
		Store:        store,
		Publisher:    fanout,
		Logger:       log,
	})
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init server: %w", err)
	}

	return &Receiver{
		cfg:    cfg,
		fanout: fanout,
		store:  store,
		server: srv,
		http: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}, nil
}

// buildFanout loads the publishers file when one is configured. Without it
// verified events are acknowledged and logged only.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.WarnObj("no publishers file configured; events will only be logged", "publishers_file", cfg.PublishersFile)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Handler exposes the receiver routes, mainly for tests.
func (r *Receiver) Handler() http.Handler {
	return r.server.Handler()
}

// Run serves deliveries until the context is cancelled.
func (r *Receiver) Run(ctx context.Context) error {
	if r == nil || r.server == nil {
		return fmt.Errorf("receiver is not initialized")
	}
	defer r.close()

	r.log.InfoObj("receiver listening", "receiver_state", map[string]any{
		"addr":             r.cfg.ListenAddr,
		"webhook_path":     r.cfg.WebhookPath,
		"publishers_count": r.fanout.Size(),
	})

	if err := server.Serve(ctx, r.http, r.cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	r.log.InfoObj("receiver stopped", "reason", ctx.Err())
	return nil
}

// close releases publishers and the store, logging any errors encountered.
func (r *Receiver) close() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err)
	}
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
