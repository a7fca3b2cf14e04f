package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const requestTimeout = 90 * time.Second

type GetCmd struct{}

func NewGetCmd() *GetCmd {
	return &GetCmd{}
}

func (c *GetCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get sensor data for a zone and time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
			if err != nil {
				return fmt.Errorf("failed to get verbose flag: %w", err)
			}
			server, err := cmd.Root().PersistentFlags().GetString("server")
			if err != nil {
				return fmt.Errorf("failed to get server flag: %w", err)
			}
			zone, err := cmd.Flags().GetString("zone")
			if err != nil {
				return fmt.Errorf("failed to get zone flag: %w", err)
			}
			dataType, err := cmd.Flags().GetString("data-type")
			if err != nil {
				return fmt.Errorf("failed to get data-type flag: %w", err)
			}
			startTime, err := cmd.Flags().GetString("start-time")
			if err != nil {
				return fmt.Errorf("failed to get start-time flag: %w", err)
			}
			endTime, err := cmd.Flags().GetString("end-time")
			if err != nil {
				return fmt.Errorf("failed to get end-time flag: %w", err)
			}

			log := newLogger(verbose)

			records, err := fetchRecords(server, zone, dataType, startTime, endTime)
			if err != nil {
				log.Error("Failed to fetch records", "error", err)
				os.Exit(1)
			}

			if len(records) == 0 {
				log.Info("No records in the requested window")
				return nil
			}

			renderTable(os.Stdout, records)
			return nil
		},
	}

	cmd.Flags().String("zone", "", "zone to query (basement, strong-floor, steel-frame)")
	cmd.Flags().String("data-type", "raw", "data type to request (raw, strain, temperature)")
	cmd.Flags().String("start-time", "", "ISO 8601 start of the time window")
	cmd.Flags().String("end-time", "", "ISO 8601 end of the time window")
	_ = cmd.MarkFlagRequired("zone")
	_ = cmd.MarkFlagRequired("start-time")
	_ = cmd.MarkFlagRequired("end-time")

	return cmd
}

func fetchRecords(server, zone, dataType, startTime, endTime string) ([]map[string]any, error) {
	query := url.Values{}
	query.Set("data-type", dataType)
	query.Set("start-time", startTime)
	query.Set("end-time", endTime)

	endpoint := fmt.Sprintf("%s/fbg/%s/?%s", strings.TrimRight(server, "/"), zone, query.Encode())

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return records, nil
}

func renderTable(w io.Writer, records []map[string]any) {
	// Column set is the union of sensor keys across records; sparse rows
	// leave blanks.
	colSet := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			if k != "timestamp" {
				colSet[k] = true
			}
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	table := tablewriter.NewWriter(w)
	table.SetHeader(append([]string{"timestamp"}, cols...))

	for _, rec := range records {
		row := make([]string, 0, len(cols)+1)
		ts, _ := rec["timestamp"].(string)
		row = append(row, ts)
		for _, col := range cols {
			switch v := rec[col].(type) {
			case float64:
				row = append(row, fmt.Sprintf("%.4f", v))
			default:
				row = append(row, "")
			}
		}
		table.Append(row)
	}

	table.Render()
}
