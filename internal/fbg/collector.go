package fbg

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Collector is the retrieval-and-calculation engine: given a zone, a
// quantity type and a time window it fetches the raw readings in that window
// and either returns them unchanged or converts them to the requested
// derived quantity using the zone's sensor metadata and calibration.
type Collector struct {
	store  Store
	calcs  *CalcRegistry
	logger *slog.Logger
}

// NewCollector creates a Collector over a store and calculation registry.
func NewCollector(store Store, calcs *CalcRegistry, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{store: store, calcs: calcs, logger: logger}
}

// Collect serves one data request. The window is boundary-exclusive: only
// rows with start < timestamp < end are returned, ascending. For
// QuantityRaw the fetched rows are returned unchanged, without touching
// metadata or the calculation registry. For derived quantities, one record
// is emitted per fetched row, holding the computed value of every sensor
// whose declared type matches, keyed by display name (uid when unnamed); a
// zone with no matching sensors yields records carrying only timestamps.
//
// Failures: ErrInvalidRange when start is after end (checked before any
// fetch), ErrNotConfigured when the zone/type pair has no calculation, and
// store errors propagated as-is in the wrap chain. No retries here; retry
// policy belongs to the store or the boundary.
func (c *Collector) Collect(ctx context.Context, zone Zone, dataType QuantityType, start, end time.Time) ([]Row, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s",
			ErrInvalidRange, start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}

	raw, err := c.store.FetchRawRows(ctx, zone, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch raw rows: %w", err)
	}

	if dataType == QuantityRaw {
		return raw, nil
	}

	// Metadata is read after the raw rows within the same request; a change
	// in between is an accepted staleness window, not corrected here.
	metaRows, err := c.store.FetchMetadata(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}
	index := NewMetadataIndex(metaRows)
	selected := selectUIDs(metaRows, index, dataType)

	calc, err := c.calcs.Resolve(zone, dataType)
	if err != nil {
		return nil, err
	}

	out := make([]Row, 0, len(raw))
	for _, row := range raw {
		rec := Row{Timestamp: row.Timestamp, Values: make(map[string]float64, len(selected))}
		for _, uid := range selected {
			if v, ok := calc(uid, row, index); ok {
				rec.Values[index[uid].DisplayKey()] = v
			}
		}
		out = append(out, rec)
	}

	c.logger.Debug("collected derived records",
		"zone", zone, "data_type", dataType, "rows", len(out), "sensors", len(selected))
	return out, nil
}
