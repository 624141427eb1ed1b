// Package memory reads system memory telemetry.
package memory

import (
	"context"
	"log/slog"
)

// Snapshot is one point-in-time reading of system memory. All figures are bytes.
// A field group whose backing query failed is zero and its error is recorded.
type Snapshot struct {
	TotalPhysical     uint64 `json:"total_physical"`
	AvailablePhysical uint64 `json:"available_physical"`
	UsedPhysical      uint64 `json:"used_physical"`
	LoadPercent       int    `json:"load_percent"`

	Cached      uint64 `json:"cached"`
	Committed   uint64 `json:"committed"`
	CommitLimit uint64 `json:"commit_limit"`

	PhysicalErr error `json:"-"`
	PagingErr   error `json:"-"`
}

// Physical holds the figures returned by the physical-memory query.
type Physical struct {
	Total       uint64
	Available   uint64
	LoadPercent int
}

// Paging holds the figures returned by the cache/commit query.
type Paging struct {
	Cached      uint64
	Committed   uint64
	CommitLimit uint64
}

// PhysicalSource queries total/available physical memory and the load percentage.
type PhysicalSource func(ctx context.Context) (Physical, error)

// PagingSource queries system cache and commit figures.
type PagingSource func(ctx context.Context) (Paging, error)

// Reader combines two independent telemetry queries into snapshots.
type Reader struct {
	physical PhysicalSource
	paging   PagingSource
	logger   *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithPhysicalSource overrides the physical-memory query.
func WithPhysicalSource(src PhysicalSource) Option {
	return func(r *Reader) { r.physical = src }
}

// WithPagingSource overrides the cache/commit query.
func WithPagingSource(src PagingSource) Option {
	return func(r *Reader) { r.paging = src }
}

// WithLogger sets the logger used for query failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a Reader backed by the platform's native queries.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		physical: queryPhysical,
		paging:   queryPaging,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read takes a fresh snapshot. It never fails: each query that errors leaves
// its fields zeroed.
func (r *Reader) Read(ctx context.Context) Snapshot {
	var s Snapshot

	phys, err := r.physical(ctx)
	if err != nil {
		r.logger.Debug("physical memory query failed", "error", err)
		s.PhysicalErr = err
	} else {
		s.TotalPhysical = phys.Total
		s.AvailablePhysical = phys.Available
		if phys.Total > phys.Available {
			s.UsedPhysical = phys.Total - phys.Available
		}
		s.LoadPercent = clampPercent(phys.LoadPercent)
	}

	pg, err := r.paging(ctx)
	if err != nil {
		r.logger.Debug("paging query failed", "error", err)
		s.PagingErr = err
	} else {
		s.Cached = pg.Cached
		s.Committed = pg.Committed
		s.CommitLimit = pg.CommitLimit
	}

	return s
}

// FreedBytes estimates memory released between two snapshots as the growth
// in available physical memory. Shrinkage reports zero, as does a pair where
// either physical reading failed.
func FreedBytes(before, after Snapshot) uint64 {
	if before.PhysicalErr != nil || after.PhysicalErr != nil {
		return 0
	}
	if after.AvailablePhysical <= before.AvailablePhysical {
		return 0
	}
	return after.AvailablePhysical - before.AvailablePhysical
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
