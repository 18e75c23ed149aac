package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"constructora/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject(t *testing.T, id string) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(domain.NewProjectInput{
		ID:             id,
		Type:           domain.TypeHouse,
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EstimatedEnd:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Address:        "Calle 10 #5-20",
		LotArea:        1000,
		LandPricePerM2: 500000,
		SizeClass:      domain.SizeLarge,
		Stratum:        4,
		RoomsPerUnit:   3,
	})
	require.NoError(t, err)
	return p
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.json")

	s, err := OpenFile(path)
	require.NoError(t, err)
	assert.False(t, s.Recovered())

	p := testProject(t, "P-001")
	require.NoError(t, s.Put(ctx, p))
	require.NoError(t, s.Put(ctx, testProject(t, "P-002")))

	// A fresh open must yield identical field values, derived ones included.
	reloaded, err := OpenFile(path)
	require.NoError(t, err)
	got, err := reloaded.Get(ctx, "P-001")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	all, err := reloaded.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "projects.json"))
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, testProject(t, "P-001")))
	require.NoError(t, s.Delete(ctx, "P-001"))
	_, err = s.Get(ctx, "P-001")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent ID is a no-op.
	require.NoError(t, s.Delete(ctx, "P-001"))

	reloaded, err := OpenFile(path)
	require.NoError(t, err)
	all, err := reloaded.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreCorruptFileRecoversEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := OpenFile(path)
	require.NoError(t, err)
	assert.True(t, s.Recovered())

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStorePersistsOnEveryMutation(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "projects.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, testProject(t, "P-001")))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
