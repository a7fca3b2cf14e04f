package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fbg_api_build_info",
		Help: "Build information of the FBG data API.",
	}, []string{"version", "commit", "date"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbg_api_requests_total", Help: "Data requests served, by zone, data type and outcome.",
	}, []string{"zone", "data_type", "outcome"})
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fbg_api_request_duration_seconds",
		Help:    "End-to-end duration of data requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"zone", "data_type"})

	RowsReturned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbg_api_rows_returned_total", Help: "Total records returned to clients.",
	}, []string{"zone"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbg_api_store_errors_total", Help: "Total data source read failures.",
	}, []string{"zone"})
)
