package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	fsStore, err := Open(ctx, Config{FSRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, fsStore.Driver())

	memStore, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, memStore.Driver())

	s3Store, err := Open(ctx, Config{Driver: DriverS3, S3: S3Config{
		Bucket:          "ledger",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, s3Store.Driver())
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, Config{Driver: "ftp"})
	require.Error(t, err)
	_, err = Open(ctx, Config{Driver: DriverS3})
	require.Error(t, err)
}
