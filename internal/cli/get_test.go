package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchRecords(t *testing.T) {
	records := []map[string]any{
		{"timestamp": "2020-02-01T00:30:00Z", "S1": 12.5},
		{"timestamp": "2020-02-01T00:45:00Z", "S1": 13.0},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fbg/basement/", r.URL.Path)
		require.Equal(t, "strain", r.URL.Query().Get("data-type"))
		require.Equal(t, "2020-02-01T00:00:00", r.URL.Query().Get("start-time"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	got, err := fetchRecords(srv.URL, "basement", "strain", "2020-02-01T00:00:00", "2020-02-01T01:00:00")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.InDelta(t, 12.5, got[0]["S1"], 1e-9)
}

func TestFetchRecords_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Start time is later than end time", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := fetchRecords(srv.URL, "basement", "raw", "2020-02-01T01:00:00", "2020-02-01T00:00:00")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Start time is later than end time")
}

func TestRenderTable_SparseColumns(t *testing.T) {
	records := []map[string]any{
		{"timestamp": "2020-02-01T00:30:00Z", "S1": 12.5},
		{"timestamp": "2020-02-01T00:45:00Z", "S1": 13.0, "S2": -1.25},
	}

	var sb strings.Builder
	renderTable(&sb, records)
	out := sb.String()

	require.Contains(t, out, "S1")
	require.Contains(t, out, "S2")
	require.Contains(t, out, "12.5000")
	require.Contains(t, out, "-1.2500")
}
