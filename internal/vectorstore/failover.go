package vectorstore

import (
	"context"
	"fmt"

	"storefront-ai/internal/contextutil"
)

// Backend identifies which index variant served a search.
type Backend int

const (
	// BackendManaged is the remote approximate-nearest-neighbor service.
	BackendManaged Backend = iota
	// BackendScan is the in-process exact fallback scan.
	BackendScan
)

func (b Backend) String() string {
	switch b {
	case BackendManaged:
		return "managed"
	case BackendScan:
		return "scan"
	default:
		return "unknown"
	}
}

// Routed is the typed outcome of backend selection: the results plus the
// backend that produced them.
type Routed struct {
	Results []SearchResult
	Backend Backend
}

// FailoverIndex implements Index with a two-step backend policy: try the
// managed service, and on any failure fall back transparently to the exact
// scan. Fallback is a resilience requirement, not an optimization; only a
// failure of both backends surfaces to the caller.
type FailoverIndex struct {
	managed Index
	scan    Index
}

// NewFailoverIndex creates a failover index over a managed backend and a
// scan fallback.
func NewFailoverIndex(managed, scan Index) *FailoverIndex {
	return &FailoverIndex{
		managed: managed,
		scan:    scan,
	}
}

// Search routes the query per the failover policy and returns the results.
func (f *FailoverIndex) Search(ctx context.Context, vector []float32, k int, filter map[string]any) ([]SearchResult, error) {
	routed, err := f.route(ctx, vector, k, filter)
	if err != nil {
		return nil, err
	}
	return routed.Results, nil
}

// route performs the two-step backend selection.
func (f *FailoverIndex) route(ctx context.Context, vector []float32, k int, filter map[string]any) (Routed, error) {
	logger := contextutil.LoggerFromContext(ctx)

	results, err := f.managed.Search(ctx, vector, k, filter)
	if err == nil {
		return Routed{Results: results, Backend: BackendManaged}, nil
	}

	backendErr := &BackendError{Backend: BackendManaged.String(), Err: err}
	logger.WarnContext(ctx, "managed index unavailable, falling back to exact scan", "error", backendErr)

	results, err = f.scan.Search(ctx, vector, k, filter)
	if err != nil {
		return Routed{}, fmt.Errorf("fallback scan failed after managed backend error: %w", err)
	}

	return Routed{Results: results, Backend: BackendScan}, nil
}
