// Package memory provides the in-memory ledger store. It is the source of
// truth for every backend: durable stores embed it and flush its state after
// each committed transaction.
package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"donorledger/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Donor aliases domain.Donor.
	Donor = domain.Donor
	// DonorInput aliases domain.DonorInput.
	DonorInput = domain.DonorInput
	// Donation aliases domain.Donation.
	Donation = domain.Donation
	// InventoryItem aliases domain.InventoryItem.
	InventoryItem = domain.InventoryItem
	// BloodType aliases domain.BloodType.
	BloodType = domain.BloodType
	// ID aliases domain.ID.
	ID = domain.ID
	// Snapshot aliases domain.Snapshot.
	Snapshot = domain.Snapshot
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

const (
	// seedMinUnits and seedUnitSpan define the uniform [5, 25) range used for
	// freshly initialized stock.
	seedMinUnits = 5
	seedUnitSpan = 20
)

type ledgerState struct {
	donors         []Donor
	donations      []Donation
	inventory      []InventoryItem
	nextDonorID    ID
	nextDonationID ID
}

func (s ledgerState) clone() ledgerState {
	cloned := ledgerState{
		donors:         make([]Donor, len(s.donors)),
		donations:      make([]Donation, len(s.donations)),
		inventory:      make([]InventoryItem, len(s.inventory)),
		nextDonorID:    s.nextDonorID,
		nextDonationID: s.nextDonationID,
	}
	for i, d := range s.donors {
		cloned.donors[i] = domain.CloneDonor(d)
	}
	copy(cloned.donations, s.donations)
	copy(cloned.inventory, s.inventory)
	return cloned
}

func (s ledgerState) snapshot() Snapshot {
	c := s.clone()
	return Snapshot{
		Donors:         c.donors,
		Donations:      c.donations,
		Inventory:      c.inventory,
		NextDonorID:    c.nextDonorID,
		NextDonationID: c.nextDonationID,
	}
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for registration and stock dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithRand overrides the random source used to seed initial stock. intn must
// return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Store) {
		if intn != nil {
			s.intn = intn
		}
	}
}

// Store provides an in-memory transactional store for the ledger.
type Store struct {
	mu     sync.RWMutex
	state  ledgerState
	engine *RulesEngine
	nowFn  func() time.Time
	intn   func(n int) int
}

// NewStore constructs a store holding freshly initialized state: empty donor
// and donation collections, seeded inventory, and both counters at 1.
func NewStore(engine *RulesEngine, opts ...Option) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	s := &Store{
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
		intn:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.stateFromSnapshot(Snapshot{})
	return s
}

// stateFromSnapshot trusts the snapshot verbatim and only fills in absent
// buckets with their defaults.
func (s *Store) stateFromSnapshot(snapshot Snapshot) ledgerState {
	snapshot = snapshot.Clone()
	state := ledgerState{
		donors:         snapshot.Donors,
		donations:      snapshot.Donations,
		inventory:      snapshot.Inventory,
		nextDonorID:    snapshot.NextDonorID,
		nextDonationID: snapshot.NextDonationID,
	}
	if state.donors == nil {
		state.donors = []Donor{}
	}
	if state.donations == nil {
		state.donations = []Donation{}
	}
	if state.inventory == nil {
		state.inventory = s.seedInventory()
	}
	if state.nextDonorID == 0 {
		state.nextDonorID = 1
	}
	if state.nextDonationID == 0 {
		state.nextDonationID = 1
	}
	return state
}

func (s *Store) seedInventory() []InventoryItem {
	today := domain.DateOf(s.nowFn())
	types := domain.CanonicalBloodTypes()
	items := make([]InventoryItem, 0, len(types))
	for _, bt := range types {
		items = append(items, InventoryItem{
			BloodType:   bt,
			Units:       seedMinUnits + s.intn(seedUnitSpan),
			LastUpdated: today,
		})
	}
	return items
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// ImportState replaces the store state with the provided snapshot. Absent
// buckets fall back to their defaults; nothing else is validated.
func (s *Store) ImportState(snapshot Snapshot) {
	state := s.stateFromSnapshot(snapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ReplaceState imports the snapshot. The memory store has nothing to flush.
func (s *Store) ReplaceState(_ context.Context, snapshot Snapshot) error {
	s.ImportState(snapshot)
	return nil
}

// RulesEngine exposes the configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// ListDonors returns donors in registration order.
func (s *Store) ListDonors() []Donor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListDonors()
}

// ListDonations returns donations in insertion order.
func (s *Store) ListDonations() []Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListDonations()
}

// ListInventory returns inventory items in stored order.
func (s *Store) ListInventory() []InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListInventory()
}

// RunInTransaction applies fn to a private copy of the state and commits the
// copy only when fn and every registered rule succeed.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil && len(tx.changes) > 0 {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(newTransactionView(&snapshot))
}

type transaction struct {
	state   ledgerState
	changes []Change
	now     time.Time
}

type transactionView struct {
	state *ledgerState
}

func newTransactionView(state *ledgerState) TransactionView {
	return transactionView{state: state}
}

func (v transactionView) ListDonors() []Donor {
	out := make([]Donor, len(v.state.donors))
	for i, d := range v.state.donors {
		out[i] = domain.CloneDonor(d)
	}
	return out
}

func (v transactionView) ListDonations() []Donation {
	return append(make([]Donation, 0, len(v.state.donations)), v.state.donations...)
}

func (v transactionView) ListInventory() []InventoryItem {
	return append(make([]InventoryItem, 0, len(v.state.inventory)), v.state.inventory...)
}

func (v transactionView) FindDonor(id ID) (Donor, bool) {
	if i := v.state.donorIndex(id); i >= 0 {
		return domain.CloneDonor(v.state.donors[i]), true
	}
	return Donor{}, false
}

func (v transactionView) FindInventoryItem(bloodType BloodType) (InventoryItem, bool) {
	if i := v.state.inventoryIndex(bloodType); i >= 0 {
		return v.state.inventory[i], true
	}
	return InventoryItem{}, false
}

// donorIndex returns the first donor with id, or -1.
func (s *ledgerState) donorIndex(id ID) int {
	for i := range s.donors {
		if s.donors[i].ID == id {
			return i
		}
	}
	return -1
}

// inventoryIndex returns the first item for bloodType, or -1.
func (s *ledgerState) inventoryIndex(bloodType BloodType) int {
	for i := range s.inventory {
		if s.inventory[i].BloodType == bloodType {
			return i
		}
	}
	return -1
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// Today returns the transaction's calendar date.
func (tx *transaction) Today() domain.Date {
	return domain.DateOf(tx.now)
}

func (tx *transaction) FindDonor(id ID) (Donor, bool) {
	return newTransactionView(&tx.state).FindDonor(id)
}

func (tx *transaction) FindInventoryItem(bloodType BloodType) (InventoryItem, bool) {
	return newTransactionView(&tx.state).FindInventoryItem(bloodType)
}

// CreateDonor assigns the next donor id and registration date.
func (tx *transaction) CreateDonor(in DonorInput) (Donor, error) {
	d := Donor{
		ID:               tx.state.nextDonorID,
		Name:             in.Name,
		Age:              in.Age,
		Gender:           in.Gender,
		BloodType:        in.BloodType,
		Phone:            in.Phone,
		Email:            in.Email,
		Address:          in.Address,
		RegistrationDate: tx.Today(),
	}
	tx.state.nextDonorID++
	tx.state.donors = append(tx.state.donors, d)
	tx.recordChange(Change{Entity: domain.EntityDonor, Action: domain.ActionCreate, After: domain.CloneDonor(d)})
	return domain.CloneDonor(d), nil
}

// UpdateDonor mutates a donor. ID and RegistrationDate cannot change.
func (tx *transaction) UpdateDonor(id ID, mutator func(*Donor) error) (Donor, error) {
	i := tx.state.donorIndex(id)
	if i < 0 {
		return Donor{}, domain.ErrNotFound{Entity: domain.EntityDonor, ID: id.String()}
	}
	before := domain.CloneDonor(tx.state.donors[i])
	current := domain.CloneDonor(before)
	if err := mutator(&current); err != nil {
		return Donor{}, err
	}
	current.ID = before.ID
	current.RegistrationDate = before.RegistrationDate
	tx.state.donors[i] = current
	tx.recordChange(Change{Entity: domain.EntityDonor, Action: domain.ActionUpdate, Before: before, After: domain.CloneDonor(current)})
	return domain.CloneDonor(current), nil
}

// CreateDonation assigns the next donation id. The referenced donor must
// exist in the transaction state.
func (tx *transaction) CreateDonation(d Donation) (Donation, error) {
	if tx.state.donorIndex(d.DonorID) < 0 {
		return Donation{}, domain.ErrNotFound{Entity: domain.EntityDonor, ID: d.DonorID.String()}
	}
	d.ID = tx.state.nextDonationID
	tx.state.nextDonationID++
	tx.state.donations = append(tx.state.donations, d)
	tx.recordChange(Change{Entity: domain.EntityDonation, Action: domain.ActionCreate, After: d})
	return d, nil
}

// UpdateInventoryItem mutates the stock record for bloodType.
func (tx *transaction) UpdateInventoryItem(bloodType BloodType, mutator func(*InventoryItem) error) (InventoryItem, error) {
	i := tx.state.inventoryIndex(bloodType)
	if i < 0 {
		return InventoryItem{}, domain.ErrNotFound{Entity: domain.EntityInventoryItem, ID: string(bloodType)}
	}
	before := tx.state.inventory[i]
	current := before
	if err := mutator(&current); err != nil {
		return InventoryItem{}, fmt.Errorf("update inventory %s: %w", bloodType, err)
	}
	current.BloodType = before.BloodType
	tx.state.inventory[i] = current
	tx.recordChange(Change{Entity: domain.EntityInventoryItem, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}
