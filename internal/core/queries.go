package core

import "donorledger/pkg/domain"

// Summary holds the dashboard totals derived from the ledger.
type Summary struct {
	TotalDonors    int `json:"totalDonors"`
	TotalDonations int `json:"totalDonations"`
	TotalUnits     int `json:"totalUnits"`
	// CriticalTypes counts inventory items below the low stock threshold.
	CriticalTypes int `json:"criticalTypes"`
}

// InventoryStatus pairs an inventory item with its stock classification.
type InventoryStatus struct {
	Item   InventoryItem `json:"item"`
	Status StockStatus   `json:"status"`
}

// SearchDonors returns donors matching filter in insertion order.
func (s *Service) SearchDonors(filter DonorFilter) []Donor {
	var out []Donor
	for _, d := range s.store.ListDonors() {
		if filter.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// CountDonationsForDonor counts donations recorded for donorID.
func (s *Service) CountDonationsForDonor(donorID ID) int {
	count := 0
	for _, d := range s.store.ListDonations() {
		if d.DonorID == donorID {
			count++
		}
	}
	return count
}

// Summary computes totals over the current state.
func (s *Service) Summary() Summary {
	sum := Summary{
		TotalDonors:    len(s.store.ListDonors()),
		TotalDonations: len(s.store.ListDonations()),
	}
	for _, item := range s.store.ListInventory() {
		sum.TotalUnits += item.Units
		if item.Units < domain.LowThreshold {
			sum.CriticalTypes++
		}
	}
	return sum
}

// InventoryStatus classifies every inventory item.
func (s *Service) InventoryStatus() []InventoryStatus {
	items := s.store.ListInventory()
	out := make([]InventoryStatus, 0, len(items))
	for _, item := range items {
		out = append(out, InventoryStatus{Item: item, Status: item.Status()})
	}
	return out
}

// RecentDonations returns the last n donations, most recent first.
func (s *Service) RecentDonations(n int) []Donation {
	all := s.store.ListDonations()
	if n <= 0 {
		return []Donation{}
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]Donation, 0, n)
	for i := len(all) - 1; i >= len(all)-n; i-- {
		out = append(out, all[i])
	}
	return out
}
