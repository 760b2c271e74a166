package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xolan/tomato/internal/cli"
	"github.com/xolan/tomato/internal/filter"
	"github.com/xolan/tomato/internal/record"
	"github.com/xolan/tomato/internal/timeutil"
)

// Export formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatYAML = "yaml"
)

// exportCmd represents the export parent command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session records to various formats",
	Long: `Export completed session records for programmatic use, backup, or migration.

Available formats:
  json    Records with export metadata, as JSON
  csv     One row per record with a header
  yaml    Records with export metadata, as YAML

Filtering (all formats):
  --from/--to      Date range (YYYY-MM-DD or DD/MM/YYYY)
  --last N         The last N days including today
  --min N          Only sessions of at least N minutes

Use --clipboard to copy the output instead of printing it.

Examples:
  tomato export json > backup.json
  tomato export csv --last 30
  tomato export yaml --from 2024-01-01 --to 2024-01-31 --clipboard`,
}

func newExportFormatCmd(format, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   format,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			exportRecords(cmd, format)
		},
	}
	c.Flags().String("from", "", "Start date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	c.Flags().String("to", "", "End date for filtering (YYYY-MM-DD or DD/MM/YYYY)")
	c.Flags().Int("last", 0, "Filter by last N days (e.g., --last 7 for last 7 days)")
	c.Flags().Int("min", 0, "Only sessions of at least N minutes")
	c.Flags().Bool("clipboard", false, "Copy the output to the clipboard instead of printing it")
	return c
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(newExportFormatCmd(formatJSON, "Export session records as JSON"))
	exportCmd.AddCommand(newExportFormatCmd(formatCSV, "Export session records as CSV"))
	exportCmd.AddCommand(newExportFormatCmd(formatYAML, "Export session records as YAML"))
}

// exportDocument is the JSON and YAML export layout.
type exportDocument struct {
	Metadata exportMetadata  `json:"metadata" yaml:"metadata"`
	Records  []record.Record `json:"records" yaml:"records"`
}

type exportMetadata struct {
	ExportTimestamp time.Time      `json:"export_timestamp" yaml:"export_timestamp"`
	TotalRecords    int            `json:"total_records" yaml:"total_records"`
	TotalMinutes    int            `json:"total_minutes" yaml:"total_minutes"`
	FilterCriteria  map[string]any `json:"filter_criteria" yaml:"filter_criteria"`
}

// exportRecords handles every export format
func exportRecords(cmd *cobra.Command, format string) {
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	lastDays, _ := cmd.Flags().GetInt("last")
	minMinutes, _ := cmd.Flags().GetInt("min")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")

	if minMinutes < 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: --min must not be negative (got %d)\n", minMinutes)
		deps.Exit(1)
		return
	}

	services := openServices()
	if services == nil {
		return
	}
	defer closeServices(services)

	now := services.History.Now()
	criteria := map[string]any{}

	var from, to time.Time
	if fromStr != "" || toStr != "" || lastDays != 0 {
		var err error
		from, to, err = timeutil.ParseDateRangeFlags(fromStr, toStr, lastDays, now)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use either --last N or --from/--to, not both")
			deps.Exit(1)
			return
		}
		if lastDays > 0 {
			criteria["last_days"] = lastDays
		}
		if fromStr != "" {
			criteria["from"] = record.DateKey(from)
		}
		if toStr != "" {
			criteria["to"] = record.DateKey(to)
		}
	}
	if minMinutes > 0 {
		criteria["min_minutes"] = minMinutes
	}

	records, result := services.History.Filter(filter.NewFilter(from, to, minMinutes))
	printHistoryWarnings(result)

	var buf bytes.Buffer
	var err error
	switch format {
	case formatCSV:
		err = writeCSV(&buf, records)
	default:
		doc := exportDocument{
			Metadata: exportMetadata{
				ExportTimestamp: now,
				TotalRecords:    len(records),
				TotalMinutes:    totalMinutes(records),
				FilterCriteria:  criteria,
			},
			Records: records,
		}
		if format == formatYAML {
			err = writeYAML(&buf, doc)
		} else {
			err = writeJSON(&buf, doc)
		}
	}
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to encode %s output\n", format)
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	if toClipboard {
		if err := deps.Clipboard(buf.String()); err != nil {
			_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to copy to clipboard")
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: On Linux, install xclip, xsel or wl-clipboard")
			deps.Exit(1)
			return
		}
		_, _ = fmt.Fprintf(deps.Stderr, "Copied %d %s to the clipboard as %s\n",
			len(records), cli.Pluralize("record", len(records)), format)
		return
	}

	_, _ = deps.Stdout.Write(buf.Bytes())
}

func writeJSON(buf *bytes.Buffer, doc exportDocument) error {
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func writeYAML(buf *bytes.Buffer, doc exportDocument) error {
	encoder := yaml.NewEncoder(buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

func writeCSV(buf *bytes.Buffer, records []record.Record) error {
	writer := csv.NewWriter(buf)

	if err := writer.Write([]string{"id", "date", "start_time", "end_time", "duration_minutes"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.Date,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			strconv.Itoa(r.Duration),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func totalMinutes(records []record.Record) int {
	total := 0
	for _, r := range records {
		total += r.Duration
	}
	return total
}
