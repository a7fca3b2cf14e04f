package fbg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/structmon/fbg-telemetry/internal/metrics"
)

const (
	queryTimeout = 60 * time.Second
	pingTimeout  = 5 * time.Second
)

// Accepted timestamp layouts for start-time/end-time. The second covers the
// zone-less ISO 8601 strings the data collection clients send, e.g.
// "2020-02-01T17:28:14.723333"; those are taken as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// HandleZone returns the GET handler serving one zone's sensor data:
// /fbg/<zone>/?data-type=...&start-time=...&end-time=...
func (a *App) HandleZone(zone Zone) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		q := r.URL.Query()

		dataType, err := ParseQuantityType(q.Get("data-type"))
		if err != nil {
			// Label stays bounded: never echo request input into a metric.
			metrics.RequestsTotal.WithLabelValues(string(zone), "invalid", "bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		startTime, err := timeParam(q, "start-time")
		if err != nil {
			metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		endTime, err := timeParam(q, "end-time")
		if err != nil {
			metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "bad_request").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		records, err := a.collector.Collect(ctx, zone, dataType, startTime, endTime)
		if err != nil {
			a.writeCollectError(w, zone, dataType, err)
			return
		}

		metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "ok").Inc()
		metrics.RequestDuration.WithLabelValues(string(zone), string(dataType)).Observe(time.Since(start).Seconds())
		metrics.RowsReturned.WithLabelValues(string(zone)).Add(float64(len(records)))

		if records == nil {
			records = []Row{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			a.logger.Error("response encoding failed", "zone", zone, "error", err)
		}
	}
}

func (a *App) writeCollectError(w http.ResponseWriter, zone Zone, dataType QuantityType, err error) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "invalid_range").Inc()
		http.Error(w, "Start time is later than end time", http.StatusUnprocessableEntity)
	case errors.Is(err, ErrNotConfigured):
		// Registry defect, not a data condition. Surfaced loudly.
		metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "config_error").Inc()
		a.logger.Error("calculation registry miss", "zone", zone, "data_type", dataType, "error", err)
		http.Error(w, "No calculation configured for this zone and data type", http.StatusInternalServerError)
	default:
		metrics.RequestsTotal.WithLabelValues(string(zone), string(dataType), "store_error").Inc()
		metrics.StoreErrors.WithLabelValues(string(zone)).Inc()
		a.logger.Error("data source read failed", "zone", zone, "error", err)
		http.Error(w, "Data source read failed", http.StatusBadGateway)
	}
}

// HandleHealthz returns the health status of the service.
func (a *App) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unhealthy: database connection failed"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func timeParam(q url.Values, key string) (time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing required parameter %q", key)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q: expected an ISO 8601 timestamp", key, raw)
}
