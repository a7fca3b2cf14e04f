package fbg

import (
	"context"
	"time"
)

// Store is the read-only persistence surface the collector depends on. Both
// reads are request-scoped snapshots: raw rows and metadata are fetched
// independently, so metadata changing between the two reads of one request
// is an accepted staleness window.
type Store interface {
	// FetchRawRows returns the zone's wide rows whose timestamps lie
	// strictly inside (start, end), ascending by timestamp.
	FetchRawRows(ctx context.Context, zone Zone, start, end time.Time) ([]Row, error)

	// FetchMetadata returns all of the zone's sensor metadata rows in a
	// deterministic order.
	FetchMetadata(ctx context.Context, zone Zone) ([]SensorMeta, error)

	// Ping reports whether the backing data source is reachable.
	Ping(ctx context.Context) error
}
