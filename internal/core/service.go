package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorledger/internal/infra/persistence/memory"
	"donorledger/pkg/domain"
)

// Service exposes the ledger operations on top of a PersistentStore. Every
// mutation runs in one store transaction, so a failure leaves state untouched
// and a success is flushed to the backing store as a single unit.
type Service struct {
	store   PersistentStore
	now     func() time.Time
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder sets the operation metrics sink.
func WithMetricsRecorder(metrics MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithTracer sets the span tracer.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithAuditRecorder sets the audit sink for mutating operations.
func WithAuditRecorder(audit AuditRecorder) ServiceOption {
	return func(s *Service) {
		if audit != nil {
			s.audit = audit
		}
	}
}

// WithClock overrides the clock used for audit timestamps and archive keys.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	svc := &Service{
		store:   store,
		now:     time.Now,
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
	if clock, ok := store.(interface{ NowFunc() func() time.Time }); ok {
		if fn := clock.NowFunc(); fn != nil {
			svc.now = fn
		}
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NewInMemoryService creates a service over a fresh in-memory store.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// RegisterDonor appends a donor with the next id and today's registration
// date. Input is stored as given.
func (s *Service) RegisterDonor(ctx context.Context, input DonorInput) (Donor, error) {
	const op = "register_donor"
	var created Donor
	err := s.run(ctx, op, func(ctx context.Context) (AuditEntry, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateDonor(input)
			return err
		})
		s.logViolations(op, res)
		if blocked(err) {
			created = Donor{}
		}
		return AuditEntry{Entity: EntityDonor, EntityID: idString(created.ID)}, err
	})
	return created, err
}

// RecordDonation logs a donation for an existing donor. The donation copies
// the donor's name and blood type, the donor's lastDonation becomes the
// donation date, and the matching inventory item grows by the donated units.
// The outcome is OutcomeSkipped when no inventory item matches the donor's
// blood type. An unknown donor fails with ErrNotFound and changes nothing.
func (s *Service) RecordDonation(ctx context.Context, input DonationInput) (Donation, Outcome, error) {
	const op = "record_donation"
	var (
		created Donation
		outcome Outcome
	)
	err := s.run(ctx, op, func(ctx context.Context) (AuditEntry, error) {
		res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			donor, ok := tx.FindDonor(input.DonorID)
			if !ok {
				return ErrNotFound{Entity: EntityDonor, ID: input.DonorID.String()}
			}
			donation, err := tx.CreateDonation(Donation{
				DonorID:   donor.ID,
				DonorName: donor.Name,
				BloodType: donor.BloodType,
				Date:      input.Date,
				Units:     input.Units,
				Notes:     input.Notes,
			})
			if err != nil {
				return err
			}
			date := input.Date
			if _, err := tx.UpdateDonor(donor.ID, func(d *Donor) error {
				d.LastDonation = &date
				return nil
			}); err != nil {
				return err
			}
			result := OutcomeSkipped
			if _, ok := tx.FindInventoryItem(donor.BloodType); ok {
				today := tx.Today()
				if _, err := tx.UpdateInventoryItem(donor.BloodType, func(item *InventoryItem) error {
					item.Units += input.Units
					item.LastUpdated = today
					return nil
				}); err != nil {
					return err
				}
				result = OutcomeApplied
			}
			created, outcome = donation, result
			return nil
		})
		s.logViolations(op, res)
		if blocked(err) {
			created, outcome = Donation{}, ""
		}
		if created.ID != 0 {
			if outcome == OutcomeSkipped {
				s.logger.Warn("donation recorded without matching inventory item", "donation_id", created.ID, "blood_type", created.BloodType)
			}
			if obs, ok := s.metrics.(DonationObserver); ok {
				obs.ObserveDonation(ctx, created.BloodType, created.Units)
			}
			s.observeInventory(ctx)
		}
		return AuditEntry{Entity: EntityDonation, EntityID: idString(created.ID), Outcome: outcome}, err
	})
	return created, outcome, err
}

// AdjustInventory adds delta to the stock for bloodType, clamping at zero, and
// stamps today's date. An unknown blood type is a no-op that persists nothing
// and reports OutcomeSkipped.
func (s *Service) AdjustInventory(ctx context.Context, bloodType BloodType, delta int) (InventoryItem, Outcome, error) {
	const op = "adjust_inventory"
	var (
		updated InventoryItem
		outcome = OutcomeSkipped
	)
	err := s.run(ctx, op, func(ctx context.Context) (AuditEntry, error) {
		entry := AuditEntry{Entity: EntityInventoryItem, EntityID: string(bloodType), Outcome: OutcomeSkipped}
		_, ok, err := s.findInventoryItem(ctx, bloodType)
		if err != nil {
			outcome, entry.Outcome = "", ""
			return entry, err
		}
		if !ok {
			s.logger.Info("inventory adjustment skipped", "blood_type", bloodType, "delta", delta)
			return entry, nil
		}
		res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			today := tx.Today()
			var err error
			updated, err = tx.UpdateInventoryItem(bloodType, func(item *InventoryItem) error {
				item.Units = max(0, item.Units+delta)
				item.LastUpdated = today
				return nil
			})
			return err
		})
		s.logViolations(op, res)
		if blocked(err) {
			updated = InventoryItem{}
		}
		if updated.BloodType != "" {
			outcome = OutcomeApplied
			entry.Outcome = outcome
			s.observeInventory(ctx)
		}
		return entry, err
	})
	return updated, outcome, err
}

// ListDonors returns every donor in insertion order.
func (s *Service) ListDonors() []Donor {
	return s.store.ListDonors()
}

// ListDonations returns every donation in insertion order.
func (s *Service) ListDonations() []Donation {
	return s.store.ListDonations()
}

// ListInventory returns the inventory in stored order. Freshly seeded stock
// follows the canonical blood type order; loaded state keeps its own.
func (s *Service) ListInventory() []InventoryItem {
	return s.store.ListInventory()
}

func (s *Service) findInventoryItem(ctx context.Context, bloodType BloodType) (InventoryItem, bool, error) {
	var (
		item InventoryItem
		ok   bool
	)
	err := s.store.View(ctx, func(view TransactionView) error {
		item, ok = view.FindInventoryItem(bloodType)
		return nil
	})
	if err != nil {
		return InventoryItem{}, false, fmt.Errorf("read inventory %s: %w", bloodType, err)
	}
	return item, ok, nil
}

func (s *Service) observeInventory(ctx context.Context) {
	if obs, ok := s.metrics.(InventoryObserver); ok {
		obs.ObserveInventory(ctx, s.store.ListInventory())
	}
}

func (s *Service) logViolations(op string, res Result) {
	for _, v := range res.Violations {
		s.logger.Warn("rule violation",
			"operation", op,
			"rule", v.Rule,
			"severity", v.Severity,
			"entity", v.Entity,
			"entity_id", v.EntityID,
			"message", v.Message,
		)
	}
}

// run wraps an operation with tracing, metrics, logging and auditing.
func (s *Service) run(ctx context.Context, op string, fn func(context.Context) (AuditEntry, error)) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, op)
	entry, err := fn(ctx)
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)

	entry.Operation = op
	entry.Duration = duration
	entry.OccurredAt = s.now().UTC()
	entry.Status = AuditStatusSuccess
	if err != nil {
		entry.Status = AuditStatusError
		entry.Error = err.Error()
		if domain.IsNotFound(err) {
			s.logger.Warn("core operation rejected", "operation", op, "error", err)
		} else {
			s.logger.Error("core operation failed", "operation", op, "error", err)
		}
	} else {
		s.logger.Debug("core operation completed", "operation", op, "entity_id", entry.EntityID, "duration", duration)
	}
	s.audit.Record(ctx, entry)
	return err
}

// blocked reports whether a transaction was rolled back by a blocking rule.
func blocked(err error) bool {
	var rv RuleViolationError
	return errors.As(err, &rv)
}

func idString(id ID) string {
	if id == 0 {
		return ""
	}
	return id.String()
}
