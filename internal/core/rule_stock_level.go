package core

import (
	"context"
	"fmt"

	"donorledger/pkg/domain"
)

// NewStockLevelRule returns a non-blocking rule that flags inventory items
// left below the low stock threshold by a transaction.
func NewStockLevelRule() domain.Rule {
	return stockLevelRule{}
}

type stockLevelRule struct{}

func (stockLevelRule) Name() string { return "stock_level" }

func (r stockLevelRule) Evaluate(_ context.Context, _ domain.TransactionView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityInventoryItem {
			continue
		}
		item, ok := change.After.(domain.InventoryItem)
		if !ok {
			continue
		}
		status := item.Status()
		if status == domain.StockAvailable {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     r.Name(),
			Severity: domain.SeverityWarn,
			Message:  fmt.Sprintf("blood type %s at %s: %d units", item.BloodType, status, item.Units),
			Entity:   domain.EntityInventoryItem,
			EntityID: string(item.BloodType),
		})
	}
	return res, nil
}
