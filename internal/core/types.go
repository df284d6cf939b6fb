package core

import "donorledger/pkg/domain"

type (
	EntityType         = domain.EntityType
	BloodType          = domain.BloodType
	ID                 = domain.ID
	Date               = domain.Date
	Donor              = domain.Donor
	DonorInput         = domain.DonorInput
	Donation           = domain.Donation
	DonationInput      = domain.DonationInput
	InventoryItem      = domain.InventoryItem
	DonorFilter        = domain.DonorFilter
	StockStatus        = domain.StockStatus
	Outcome            = domain.Outcome
	Snapshot           = domain.Snapshot
	Severity           = domain.Severity
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	Rule               = domain.Rule
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	ErrNotFound        = domain.ErrNotFound
)

const (
	EntityDonor         = domain.EntityDonor
	EntityDonation      = domain.EntityDonation
	EntityInventoryItem = domain.EntityInventoryItem
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	OutcomeApplied = domain.OutcomeApplied
	OutcomeSkipped = domain.OutcomeSkipped
)

// NewRulesEngine constructs an empty rules engine.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}
