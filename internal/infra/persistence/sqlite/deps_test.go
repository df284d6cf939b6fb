package sqlite

import (
	"testing"

	"donorledger/testutil"
)

func TestImportsAreDomainOrMemory(t *testing.T) {
	testutil.AssertLocalImports(t, ".",
		"donorledger/pkg/domain",
		"donorledger/internal/infra/persistence/memory",
	)
}
