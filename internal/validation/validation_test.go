package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorledger/pkg/domain"
)

func validDonor() domain.DonorInput {
	return domain.DonorInput{
		Name:      "Ann Lee",
		Age:       34,
		Gender:    "female",
		BloodType: domain.BloodTypeONeg,
		Phone:     "+1 (555) 010-2030",
		Email:     "ann@example.org",
		Address:   "1 Main St",
	}
}

func TestDonorAcceptsValidInput(t *testing.T) {
	require.NoError(t, Donor(validDonor()))

	in := validDonor()
	in.Email = ""
	in.Phone = ""
	in.Age = MinDonorAge
	require.NoError(t, Donor(in))
	in.Age = MaxDonorAge
	require.NoError(t, Donor(in))
}

func TestDonorReportsEveryInvalidField(t *testing.T) {
	in := domain.DonorInput{
		Name:      "  ",
		Age:       17,
		BloodType: "AB",
		Email:     "not-an-email",
		Phone:     "call me",
	}
	err := Donor(in)
	require.Error(t, err)
	assert.Equal(t, []string{"name", "age", "bloodType", "email", "phone"}, Fields(err))

	in = validDonor()
	in.Name = strings.Repeat("x", 256)
	in.Age = 66
	in.Phone = "123"
	assert.Equal(t, []string{"name", "age", "phone"}, Fields(Donor(in)))
}

func TestDonationValidation(t *testing.T) {
	require.NoError(t, Donation(domain.DonationInput{DonorID: 1, Date: "2024-01-05", Units: 1}))

	err := Donation(domain.DonationInput{DonorID: 0, Date: "05/01/2024", Units: 0, Notes: strings.Repeat("n", 1001)})
	require.Error(t, err)
	assert.Equal(t, []string{"donorId", "date", "units", "notes"}, Fields(err))
	assert.Contains(t, err.Error(), "units: must be at least 1")

	assert.Equal(t, []string{"units"}, Fields(Donation(domain.DonationInput{DonorID: 2, Date: "2024-02-29", Units: -3})))
}

func TestFieldsNil(t *testing.T) {
	assert.Nil(t, Fields(nil))
}
