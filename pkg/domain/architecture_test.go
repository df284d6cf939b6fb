package domain

import (
	"testing"

	"donorledger/testutil"
)

// The domain package sits below every backend and service.
func TestDomainImportsStdlibOnly(t *testing.T) {
	testutil.AssertStdlibOnly(t, ".")
}
