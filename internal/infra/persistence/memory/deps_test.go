package memory

import (
	"testing"

	"donorledger/testutil"
)

func TestImportsAreDomainOrStdlib(t *testing.T) {
	testutil.AssertLocalImports(t, ".", "donorledger/pkg/domain")
}
