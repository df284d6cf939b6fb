package core

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorledger/internal/blob"
	"donorledger/pkg/domain"
)

func TestArchiveAndRestoreSnapshot(t *testing.T) {
	ctx := context.Background()
	archive := blob.NewMemory()
	svc := newTestService(t, WithClock(func() time.Time { return fixedNow }))
	donor, err := svc.RegisterDonor(ctx, donorInput("Ann", domain.BloodTypeOPos))
	require.NoError(t, err)
	_, _, err = svc.RecordDonation(ctx, DonationInput{DonorID: donor.ID, Date: "2024-01-05", Units: 2})
	require.NoError(t, err)
	wantDonors := svc.ListDonors()
	wantDonations := svc.ListDonations()
	wantInventory := svc.ListInventory()

	info, err := svc.Archive(ctx, archive)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.Key, "snapshots/2024-03-09/"))
	assert.True(t, strings.HasSuffix(info.Key, ".json"))
	assert.Equal(t, "1", info.Metadata["donors"])

	_, err = svc.RegisterDonor(ctx, donorInput("Bob", domain.BloodTypeAPos))
	require.NoError(t, err)
	_, _, err = svc.AdjustInventory(ctx, domain.BloodTypeOPos, -100)
	require.NoError(t, err)

	archives, err := svc.ListArchives(ctx, archive)
	require.NoError(t, err)
	require.Len(t, archives, 1)

	require.NoError(t, svc.Restore(ctx, archive, archives[0].Key))
	assert.Equal(t, wantDonors, svc.ListDonors())
	assert.Equal(t, wantDonations, svc.ListDonations())
	assert.Equal(t, wantInventory, svc.ListInventory())

	next, err := svc.RegisterDonor(ctx, donorInput("Cara", domain.BloodTypeBPos))
	require.NoError(t, err)
	assert.Equal(t, ID(2), next.ID)
}

func TestRestoreFillsMissingBuckets(t *testing.T) {
	ctx := context.Background()
	archive := blob.NewMemory()
	_, err := archive.Put(ctx, "snapshots/manual.json", bytes.NewReader([]byte(`{"donors":[{"id":"7","name":"Ann","bloodType":"O+"}]}`)), blob.PutOptions{})
	require.NoError(t, err)
	svc := newTestService(t)

	require.NoError(t, svc.Restore(ctx, archive, "snapshots/manual.json"))
	donors := svc.ListDonors()
	require.Len(t, donors, 1)
	assert.Equal(t, ID(7), donors[0].ID)
	assert.Len(t, svc.ListInventory(), 8)
	assert.Empty(t, svc.ListDonations())
}

func TestRestoreErrors(t *testing.T) {
	ctx := context.Background()
	archive := blob.NewMemory()
	audit := &captureAudit{}
	svc := newTestService(t, WithAuditRecorder(audit))

	err := svc.Restore(ctx, archive, "snapshots/missing.json")
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, AuditStatusError, audit.last().Status)

	_, err = archive.Put(ctx, "snapshots/bad.json", bytes.NewReader([]byte("[")), blob.PutOptions{})
	require.NoError(t, err)
	require.Error(t, svc.Restore(ctx, archive, "snapshots/bad.json"))

	_, err = archive.Put(ctx, "snapshots/badbucket.json", bytes.NewReader([]byte(`{"donors":"nope"}`)), blob.PutOptions{})
	require.NoError(t, err)
	require.Error(t, svc.Restore(ctx, archive, "snapshots/badbucket.json"))
}
