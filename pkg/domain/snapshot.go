package domain

// Persisted bucket names. Each bucket is serialized and read back
// independently; a missing bucket falls back to its default.
const (
	BucketDonors         = "donors"
	BucketDonations      = "donations"
	BucketInventory      = "inventory"
	BucketNextDonorID    = "nextDonorId"
	BucketNextDonationID = "nextDonationId"
)

// Buckets lists the persisted bucket names in write order.
func Buckets() []string {
	return []string{BucketDonors, BucketDonations, BucketInventory, BucketNextDonorID, BucketNextDonationID}
}

// Snapshot is a point-in-time copy of the full ledger state. A nil
// collection or zero counter means the bucket was absent.
type Snapshot struct {
	Donors         []Donor         `json:"donors"`
	Donations      []Donation      `json:"donations"`
	Inventory      []InventoryItem `json:"inventory"`
	NextDonorID    ID              `json:"nextDonorId"`
	NextDonationID ID              `json:"nextDonationId"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{NextDonorID: s.NextDonorID, NextDonationID: s.NextDonationID}
	if s.Donors != nil {
		out.Donors = make([]Donor, len(s.Donors))
		for i, d := range s.Donors {
			out.Donors[i] = CloneDonor(d)
		}
	}
	if s.Donations != nil {
		out.Donations = append(make([]Donation, 0, len(s.Donations)), s.Donations...)
	}
	if s.Inventory != nil {
		out.Inventory = append(make([]InventoryItem, 0, len(s.Inventory)), s.Inventory...)
	}
	return out
}

// CloneDonor copies d including its LastDonation pointer target.
func CloneDonor(d Donor) Donor {
	if d.LastDonation != nil {
		last := *d.LastDonation
		d.LastDonation = &last
	}
	return d
}
