// Package app assembles a ready-to-use ledger from configuration: logger,
// metrics, persistent store, service and snapshot archive.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"donorledger/internal/blob"
	"donorledger/internal/config"
	"donorledger/internal/core"
	"donorledger/internal/logging"
	"donorledger/internal/metrics"
	"donorledger/internal/report"
	"donorledger/internal/validation"
	"donorledger/pkg/domain"
)

// App owns the ledger service and the resources behind it.
type App struct {
	Service  *core.Service
	Archive  blob.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	store core.PersistentStore
}

// Option customizes Open.
type Option func(*options)

type options struct {
	logger *slog.Logger
	tracer core.Tracer
}

// WithLogger replaces the logger built from configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer installs a span tracer on the service.
func WithTracer(tracer core.Tracer) Option {
	return func(o *options) { o.tracer = tracer }
}

// Open builds the ledger described by cfg.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.New(cfg.Log)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry, cfg.Metrics.Namespace)

	store, err := core.OpenPersistentStore(ctx, cfg.Storage, core.NewDefaultRulesEngine())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	archive, err := blob.Open(ctx, cfg.Archive)
	if err != nil {
		_ = core.CloseStore(store)
		return nil, fmt.Errorf("open %s archive: %w", cfg.Archive.Driver, err)
	}

	svcOpts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithMetricsRecorder(m),
	}
	if o.tracer != nil {
		svcOpts = append(svcOpts, core.WithTracer(o.tracer))
	}
	svc := core.NewService(store, svcOpts...)
	m.ObserveInventory(ctx, svc.ListInventory())

	logger.Info("ledger opened",
		"storage", cfg.Storage.Driver,
		"archive", archive.Driver(),
		"donors", len(svc.ListDonors()),
		"donations", len(svc.ListDonations()),
	)
	return &App{
		Service:  svc,
		Archive:  archive,
		Logger:   logger,
		Metrics:  m,
		Registry: registry,
		store:    store,
	}, nil
}

// RegisterDonor validates input before registering the donor.
func (a *App) RegisterDonor(ctx context.Context, in domain.DonorInput) (domain.Donor, error) {
	if err := validation.Donor(in); err != nil {
		a.Logger.Info("donor rejected", "fields", validation.Fields(err))
		return domain.Donor{}, err
	}
	return a.Service.RegisterDonor(ctx, in)
}

// RecordDonation validates input before recording the donation.
func (a *App) RecordDonation(ctx context.Context, in domain.DonationInput) (domain.Donation, domain.Outcome, error) {
	if err := validation.Donation(in); err != nil {
		a.Logger.Info("donation rejected", "fields", validation.Fields(err))
		return domain.Donation{}, "", err
	}
	return a.Service.RecordDonation(ctx, in)
}

// Snapshot archives the current ledger state.
func (a *App) Snapshot(ctx context.Context) (blob.Info, error) {
	return a.Service.Archive(ctx, a.Archive)
}

// Restore replaces the ledger with an archived snapshot.
func (a *App) Restore(ctx context.Context, key string) error {
	return a.Service.Restore(ctx, a.Archive, key)
}

// ExportReport writes the xlsx report to w.
func (a *App) ExportReport(w io.Writer) error {
	return report.Write(w, a.Service)
}

// Close releases the persistent store.
func (a *App) Close() error {
	return core.CloseStore(a.store)
}
