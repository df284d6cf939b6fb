package domain

import "context"

// Transaction exposes the ledger mutations a persistence implementation must
// support within one unit of work. Changes become visible only when the
// enclosing RunInTransaction returns without error.
type Transaction interface {
	Snapshot() TransactionView
	CreateDonor(DonorInput) (Donor, error)
	UpdateDonor(id ID, mutator func(*Donor) error) (Donor, error)
	CreateDonation(Donation) (Donation, error)
	UpdateInventoryItem(bloodType BloodType, mutator func(*InventoryItem) error) (InventoryItem, error)
	FindDonor(id ID) (Donor, bool)
	FindInventoryItem(bloodType BloodType) (InventoryItem, bool)
	Today() Date
}

// TransactionView provides read-only access to ledger data.
type TransactionView interface {
	ListDonors() []Donor
	ListDonations() []Donation
	ListInventory() []InventoryItem
	FindDonor(id ID) (Donor, bool)
	FindInventoryItem(bloodType BloodType) (InventoryItem, bool)
}

// PersistentStore is the abstraction over ledger backends. Every successful
// RunInTransaction flushes the full state to the backend.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ListDonors() []Donor
	ListDonations() []Donation
	ListInventory() []InventoryItem
	ExportState() Snapshot
	ReplaceState(ctx context.Context, snapshot Snapshot) error
}
