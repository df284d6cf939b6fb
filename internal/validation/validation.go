// Package validation checks caller input before it reaches the ledger. The
// store itself accepts any input; callers that want stricter guarantees run
// these checks first.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"

	"donorledger/pkg/domain"
)

// Donor age bounds accepted at registration.
const (
	MinDonorAge = 18
	MaxDonorAge = 65
)

// FieldError reports one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Donor validates registration input. All field errors are joined.
func Donor(in domain.DonorInput) error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	} else if !govalidator.StringLength(in.Name, "1", "255") {
		errs = append(errs, FieldError{Field: "name", Message: "must be at most 255 characters"})
	}
	if !govalidator.InRangeInt(in.Age, MinDonorAge, MaxDonorAge) {
		errs = append(errs, FieldError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", MinDonorAge, MaxDonorAge)})
	}
	if !in.BloodType.Valid() {
		errs = append(errs, FieldError{Field: "bloodType", Message: fmt.Sprintf("unknown blood type %q", in.BloodType)})
	}
	if in.Email != "" && !govalidator.IsEmail(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if phone := strings.NewReplacer(" ", "", "-", "", "+", "", "(", "", ")", "").Replace(in.Phone); in.Phone != "" &&
		(!govalidator.IsNumeric(phone) || !govalidator.StringLength(phone, "7", "15")) {
		errs = append(errs, FieldError{Field: "phone", Message: "must contain 7 to 15 digits"})
	}
	return errors.Join(errs...)
}

// Donation validates donation input. All field errors are joined.
func Donation(in domain.DonationInput) error {
	var errs []error
	if in.DonorID <= 0 {
		errs = append(errs, FieldError{Field: "donorId", Message: "must be positive"})
	}
	if _, err := in.Date.Time(); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "must be formatted YYYY-MM-DD"})
	}
	if in.Units < 1 {
		errs = append(errs, FieldError{Field: "units", Message: "must be at least 1"})
	}
	if !govalidator.StringLength(in.Notes, "0", "1000") {
		errs = append(errs, FieldError{Field: "notes", Message: "must be at most 1000 characters"})
	}
	return errors.Join(errs...)
}

// Fields lists the invalid field names contained in err.
func Fields(err error) []string {
	if err == nil {
		return nil
	}
	var out []string
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var fe FieldError
		if errors.As(e, &fe) {
			out = append(out, fe.Field)
		}
	}
	walk(err)
	return out
}
