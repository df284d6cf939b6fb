package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"donorledger/internal/infra/persistence/memory"
)

var fixedNow = time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

const today Date = "2024-03-09"

// newTestStore seeds every inventory item with 24 units.
func newTestStore(engine *RulesEngine) *memory.Store {
	return memory.NewStore(engine,
		memory.WithClock(func() time.Time { return fixedNow }),
		memory.WithRand(func(n int) int { return n - 1 }),
	)
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	return NewService(newTestStore(NewDefaultRulesEngine()), opts...)
}

// countingStore counts flushes, i.e. committed transactions and replaces.
type countingStore struct {
	*memory.Store
	persists int
	failWith error
}

func (c *countingStore) RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error) {
	res, err := c.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	c.persists++
	if c.failWith != nil {
		return res, fmt.Errorf("persist state: %w", c.failWith)
	}
	return res, nil
}

func (c *countingStore) ReplaceState(ctx context.Context, snapshot Snapshot) error {
	if err := c.Store.ReplaceState(ctx, snapshot); err != nil {
		return err
	}
	c.persists++
	if c.failWith != nil {
		return fmt.Errorf("persist state: %w", c.failWith)
	}
	return nil
}

var errDiskFull = errors.New("disk full")

type captureLogger struct {
	calls []string
}

func (l *captureLogger) Debug(msg string, _ ...any) { l.calls = append(l.calls, "d:"+msg) }
func (l *captureLogger) Info(msg string, _ ...any)  { l.calls = append(l.calls, "i:"+msg) }
func (l *captureLogger) Warn(msg string, _ ...any)  { l.calls = append(l.calls, "w:"+msg) }
func (l *captureLogger) Error(msg string, _ ...any) { l.calls = append(l.calls, "e:"+msg) }

func (l *captureLogger) has(call string) bool {
	for _, c := range l.calls {
		if c == call {
			return true
		}
	}
	return false
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetrics struct {
	calls     []metricsCall
	donations map[BloodType]int
	inventory []InventoryItem
}

func (c *captureMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetrics) ObserveDonation(_ context.Context, bt BloodType, units int) {
	if c.donations == nil {
		c.donations = map[BloodType]int{}
	}
	c.donations[bt] += units
}

func (c *captureMetrics) ObserveInventory(_ context.Context, items []InventoryItem) {
	c.inventory = items
}

func (c *captureMetrics) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type captureAudit struct {
	entries []AuditEntry
}

func (c *captureAudit) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureAudit) last() AuditEntry {
	if len(c.entries) == 0 {
		return AuditEntry{}
	}
	return c.entries[len(c.entries)-1]
}

func donorInput(name string, bt BloodType) DonorInput {
	return DonorInput{
		Name:      name,
		Age:       30,
		Gender:    "female",
		BloodType: bt,
		Phone:     "5550100",
		Email:     "donor@example.org",
		Address:   "1 Main St",
	}
}

func inventoryUnits(items []InventoryItem, bt BloodType) int {
	for _, item := range items {
		if item.BloodType == bt {
			return item.Units
		}
	}
	return -1
}
