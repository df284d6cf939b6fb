// Package domain defines the ledger records, value types, persistence
// contracts, and rule evaluation primitives used by donorledger.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the ledger.
type EntityType string

// Supported entity type identifiers used in Change records and errors.
const (
	// EntityDonor identifies a registered donor.
	EntityDonor EntityType = "donor"
	// EntityDonation identifies a recorded donation.
	EntityDonation EntityType = "donation"
	// EntityInventoryItem identifies the stock record for one blood type.
	EntityInventoryItem EntityType = "inventory_item"
)

// BloodType is one of the eight canonical ABO/Rh combinations.
type BloodType string

// Canonical blood types. The set and its ordering are an external contract
// shared by inventory seeding and every lookup.
const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

var canonicalBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

// CanonicalBloodTypes returns the canonical blood types in inventory order.
func CanonicalBloodTypes() []BloodType {
	out := make([]BloodType, len(canonicalBloodTypes))
	copy(out, canonicalBloodTypes)
	return out
}

// Valid reports whether b is a canonical blood type.
func (b BloodType) Valid() bool {
	for _, bt := range canonicalBloodTypes {
		if bt == b {
			return true
		}
	}
	return false
}

// Date is a calendar date in YYYY-MM-DD form. Caller-supplied dates are kept
// verbatim; store-generated dates come from DateOf.
type Date string

// DateLayout is the layout used for store-generated dates.
const DateLayout = "2006-01-02"

// DateOf formats t as a UTC calendar date.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Format(DateLayout))
}

// Time parses the date. It fails for caller-supplied values that are not
// YYYY-MM-DD.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// Donor is a registered blood donor. Only LastDonation changes after
// registration.
type Donor struct {
	ID               ID        `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	BloodType        BloodType `json:"bloodType"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Address          string    `json:"address"`
	RegistrationDate Date      `json:"registrationDate"`
	LastDonation     *Date     `json:"lastDonation"`
}

// DonorInput carries the caller-supplied donor attributes.
type DonorInput struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	BloodType BloodType `json:"bloodType"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
}

// Donation is an immutable record of one collection event. DonorName and
// BloodType are copied from the donor when the donation is recorded.
type Donation struct {
	ID        ID        `json:"id"`
	DonorID   ID        `json:"donorId"`
	DonorName string    `json:"donorName"`
	BloodType BloodType `json:"bloodType"`
	Date      Date      `json:"date"`
	Units     int       `json:"units"`
	Notes     string    `json:"notes,omitempty"`
}

// DonationInput carries the caller-supplied donation attributes.
type DonationInput struct {
	DonorID ID     `json:"donorId"`
	Date    Date   `json:"date"`
	Units   int    `json:"units"`
	Notes   string `json:"notes,omitempty"`
}

// InventoryItem is the stock record for one canonical blood type.
type InventoryItem struct {
	BloodType   BloodType `json:"bloodType"`
	Units       int       `json:"units"`
	LastUpdated Date      `json:"lastUpdated"`
}

// Status classifies the item's stock level.
func (i InventoryItem) Status() StockStatus {
	return StatusOf(i.Units)
}

// StockStatus classifies an inventory level.
type StockStatus string

// Stock level thresholds and classifications.
const (
	StockCritical  StockStatus = "critical"
	StockLow       StockStatus = "low"
	StockAvailable StockStatus = "available"

	// CriticalThreshold is the exclusive upper bound of the critical band.
	CriticalThreshold = 5
	// LowThreshold is the exclusive upper bound of the low band. Dashboard
	// "critical types" counts every item below it.
	LowThreshold = 10
)

// StatusOf classifies a unit count.
func StatusOf(units int) StockStatus {
	switch {
	case units < CriticalThreshold:
		return StockCritical
	case units < LowThreshold:
		return StockLow
	default:
		return StockAvailable
	}
}

// Label returns the human readable status text used by reports.
func (s StockStatus) Label() string {
	switch s {
	case StockCritical:
		return "Critical"
	case StockLow:
		return "Low Stock"
	default:
		return "Available"
	}
}

// Outcome distinguishes an applied inventory mutation from one skipped
// because no matching inventory item exists.
type Outcome string

// Inventory mutation outcomes.
const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
)

// DonorFilter selects donors by case-insensitive name substring and exact
// blood type. Empty fields match everything.
type DonorFilter struct {
	Name      string
	BloodType BloodType
}

// Matches reports whether d satisfies both filter criteria.
func (f DonorFilter) Matches(d Donor) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.BloodType != "" && d.BloodType != f.BloodType {
		return false
	}
	return true
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions. Ledger records are never deleted.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Severity represents rule outcomes.
type Severity string

// Rule severities.
const (
	SeverityBlock Severity = "block"
	SeverityWarn  Severity = "warn"
	SeverityLog   Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
