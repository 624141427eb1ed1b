package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gb = 1024 * 1024 * 1024

func fixedPhysical(p Physical, err error) PhysicalSource {
	return func(context.Context) (Physical, error) { return p, err }
}

func fixedPaging(p Paging, err error) PagingSource {
	return func(context.Context) (Paging, error) { return p, err }
}

func TestReader_Read_CombinesBothQueries(t *testing.T) {
	r := NewReader(
		WithPhysicalSource(fixedPhysical(Physical{Total: 16 * gb, Available: 6 * gb, LoadPercent: 62}, nil)),
		WithPagingSource(fixedPaging(Paging{Cached: 3 * gb, Committed: 12 * gb, CommitLimit: 24 * gb}, nil)),
	)

	s := r.Read(context.Background())

	assert.Equal(t, uint64(16*gb), s.TotalPhysical)
	assert.Equal(t, uint64(6*gb), s.AvailablePhysical)
	assert.Equal(t, uint64(10*gb), s.UsedPhysical)
	assert.Equal(t, 62, s.LoadPercent)
	assert.Equal(t, uint64(3*gb), s.Cached)
	assert.Equal(t, uint64(12*gb), s.Committed)
	assert.Equal(t, uint64(24*gb), s.CommitLimit)
	assert.NoError(t, s.PhysicalErr)
	assert.NoError(t, s.PagingErr)
}

func TestReader_Read_DegradesFieldByField(t *testing.T) {
	queryErr := errors.New("query failed")

	t.Run("physical fails", func(t *testing.T) {
		r := NewReader(
			WithPhysicalSource(fixedPhysical(Physical{Total: 8 * gb}, queryErr)),
			WithPagingSource(fixedPaging(Paging{Cached: gb}, nil)),
		)
		s := r.Read(context.Background())

		require.ErrorIs(t, s.PhysicalErr, queryErr)
		assert.Zero(t, s.TotalPhysical)
		assert.Zero(t, s.LoadPercent)
		assert.Equal(t, uint64(gb), s.Cached)
	})

	t.Run("paging fails", func(t *testing.T) {
		r := NewReader(
			WithPhysicalSource(fixedPhysical(Physical{Total: 8 * gb, Available: 4 * gb, LoadPercent: 50}, nil)),
			WithPagingSource(fixedPaging(Paging{Cached: gb}, queryErr)),
		)
		s := r.Read(context.Background())

		require.ErrorIs(t, s.PagingErr, queryErr)
		assert.Zero(t, s.Cached)
		assert.Zero(t, s.Committed)
		assert.Equal(t, 50, s.LoadPercent)
	})
}

func TestReader_Read_ClampsLoadAndUsed(t *testing.T) {
	r := NewReader(
		WithPhysicalSource(fixedPhysical(Physical{Total: gb, Available: 2 * gb, LoadPercent: 140}, nil)),
		WithPagingSource(fixedPaging(Paging{}, nil)),
	)
	s := r.Read(context.Background())

	assert.Equal(t, 100, s.LoadPercent)
	assert.Zero(t, s.UsedPhysical)
}

func TestFreedBytes(t *testing.T) {
	queryErr := errors.New("query failed")
	tests := []struct {
		name   string
		before Snapshot
		after  Snapshot
		want   uint64
	}{
		{name: "available grew", before: Snapshot{AvailablePhysical: 4 * gb}, after: Snapshot{AvailablePhysical: 5 * gb}, want: gb},
		{name: "unchanged", before: Snapshot{AvailablePhysical: 4 * gb}, after: Snapshot{AvailablePhysical: 4 * gb}, want: 0},
		{name: "usage grew during clean", before: Snapshot{AvailablePhysical: 10 * gb}, after: Snapshot{AvailablePhysical: 9*gb + gb/2}, want: 0},
		{name: "before reading failed", before: Snapshot{PhysicalErr: queryErr}, after: Snapshot{AvailablePhysical: 6 * gb}, want: 0},
		{name: "after reading failed", before: Snapshot{AvailablePhysical: 2 * gb}, after: Snapshot{PhysicalErr: queryErr}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FreedBytes(tt.before, tt.after))
		})
	}
}
