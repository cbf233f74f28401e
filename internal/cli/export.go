package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/journal"
)

var (
	exportSessionID string
	exportFormat    string
	exportOutput    string
	exportLast      bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal data",
	Long:  `Export journal data in various formats.`,
}

var exportEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Export the events of a session",
	Long: `Export the gesture, commit, drop and recovery events of a session in text
or JSON format.

Examples:
  cubetwist export events --last
  cubetwist export events --session <id> --format json
  cubetwist export events --session <id> --format txt -o events.txt`,
	RunE: runExportEvents,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportEventsCmd)
	exportEventsCmd.Flags().StringVar(&exportSessionID, "session", "", "Session ID to export")
	exportEventsCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last session")
	exportEventsCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	exportEventsCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExportEvents(cmd *cobra.Command, args []string) error {
	if exportSessionID == "" && !exportLast {
		return fmt.Errorf("specify --session or --last")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID := exportSessionID
	if exportLast {
		s, err := journal.NewSessionRepository(db).GetLast()
		if err != nil {
			return fmt.Errorf("failed to get last session: %w", err)
		}
		if s == nil {
			return fmt.Errorf("no sessions found")
		}
		sessionID = s.SessionID
	}

	events, err := journal.NewEventRepository(db).ListBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no events found for session %s", sessionID)
	}

	output, err := formatEvents(events, exportFormat)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %d events to %s\n", len(events), exportOutput)
	return nil
}

func formatEvents(events []journal.Event, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		lines := make([]string, 0, len(events))
		for _, e := range events {
			line := fmt.Sprintf("%8d  %-8s", e.TsMs, e.Kind)
			if e.Command != nil {
				line += " " + *e.Command
			}
			if e.Rule != nil {
				line += " rule=" + *e.Rule
			}
			if e.Detail != nil {
				line += " " + *e.Detail
			}
			lines = append(lines, line)
		}
		return strings.Join(lines, "\n"), nil

	case "json":
		type EventJSON struct {
			TsMs      int64   `json:"ts_ms"`
			Kind      string  `json:"kind"`
			GestureID *string `json:"gesture_id,omitempty"`
			Command   *string `json:"command,omitempty"`
			Rule      *string `json:"rule,omitempty"`
			Detail    *string `json:"detail,omitempty"`
		}

		out := make([]EventJSON, 0, len(events))
		for _, e := range events {
			out = append(out, EventJSON{
				TsMs:      e.TsMs,
				Kind:      e.Kind,
				GestureID: e.GestureID,
				Command:   e.Command,
				Rule:      e.Rule,
				Detail:    e.Detail,
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown format: %s (use txt or json)", format)
	}
}
