package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorledger/pkg/domain"
)

func TestStockLevelRuleFlagsLowAndCriticalItems(t *testing.T) {
	rule := NewStockLevelRule()
	assert.Equal(t, "stock_level", rule.Name())
	changes := []Change{
		{Entity: EntityInventoryItem, Action: domain.ActionUpdate, After: InventoryItem{BloodType: domain.BloodTypeAPos, Units: 2}},
		{Entity: EntityInventoryItem, Action: domain.ActionUpdate, After: InventoryItem{BloodType: domain.BloodTypeBPos, Units: 7}},
		{Entity: EntityInventoryItem, Action: domain.ActionUpdate, After: InventoryItem{BloodType: domain.BloodTypeOPos, Units: 10}},
		{Entity: EntityDonor, Action: domain.ActionCreate, After: Donor{ID: 1}},
	}
	res, err := rule.Evaluate(context.Background(), nil, changes)
	require.NoError(t, err)
	require.Len(t, res.Violations, 2)
	assert.False(t, res.HasBlocking())
	assert.Equal(t, "A+", res.Violations[0].EntityID)
	assert.Equal(t, SeverityWarn, res.Violations[0].Severity)
	assert.Contains(t, res.Violations[0].Message, "critical")
	assert.Contains(t, res.Violations[1].Message, "low")
}

func TestStockLevelViolationsAreLoggedNotBlocking(t *testing.T) {
	logger := &captureLogger{}
	svc := newTestService(t, WithLogger(logger))
	item, outcome, err := svc.AdjustInventory(context.Background(), domain.BloodTypeOPos, -20)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 4, item.Units)
	assert.True(t, logger.has("w:rule violation"))
}
