package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/analysis"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
)

var (
	statsSession string
	statsLast    bool
	statsLimit   int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	Long: `Display the journal location, recent sessions, and counts of gestures,
commits, drops and recoveries. Counts cover the whole journal unless a
session is selected.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSession, "session", "", "Restrict counts to one session")
	statsCmd.Flags().BoolVar(&statsLast, "last", false, "Restrict counts to the last session")
	statsCmd.Flags().IntVar(&statsLimit, "limit", 5, "Number of recent sessions to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("cubetwist Journal")
	fmt.Println("=================")
	fmt.Println()
	fmt.Printf("Database: %s\n", db.Path())
	if !cfg.Journal.Enabled {
		fmt.Println("(journaling is disabled in the configuration)")
	}
	fmt.Println()

	sessions := journal.NewSessionRepository(db)
	events := journal.NewEventRepository(db)

	sessionID := statsSession
	if statsLast {
		last, err := sessions.GetLast()
		if err != nil {
			return fmt.Errorf("failed to get last session: %w", err)
		}
		if last == nil {
			fmt.Println("No sessions recorded")
			return nil
		}
		sessionID = last.SessionID
	}
	if sessionID != "" {
		s, err := sessions.Get(sessionID)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if s == nil {
			return fmt.Errorf("session not found: %s", sessionID)
		}
		printSession(*s)
		fmt.Println()

		list, err := events.ListBySession(sessionID)
		if err != nil {
			return fmt.Errorf("failed to get events: %w", err)
		}
		var durationMs int64
		if s.DurationMs != nil {
			durationMs = *s.DurationMs
		}
		printSummary(analysis.Summarize(sessionID, list, durationMs))
		fmt.Println()
	} else {
		list, err := sessions.List(statsLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sessions recorded")
			return nil
		}
		fmt.Printf("Recent sessions (%d):\n", len(list))
		for _, s := range list {
			printSession(s)
		}
		fmt.Println()
	}

	counts, err := events.Counts(sessionID)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	fmt.Println("Events:")
	for _, kind := range []string{journal.KindGesture, journal.KindCommit, journal.KindDrop, journal.KindRecover} {
		fmt.Printf("  %-8s %d\n", kind, counts[kind])
	}
	if g := counts[journal.KindGesture]; g > 0 {
		fmt.Printf("  twist success: %.0f%%\n", 100*float64(counts[journal.KindCommit])/float64(g))
	}

	rules, err := events.RuleCounts(sessionID)
	if err != nil {
		return fmt.Errorf("failed to count rules: %w", err)
	}
	if len(rules) > 0 {
		fmt.Println()
		fmt.Println("Classifier rules:")
		names := make([]string, 0, len(rules))
		for name := range rules {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if rules[names[i]] != rules[names[j]] {
				return rules[names[i]] > rules[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Printf("  %-14s %d\n", name, rules[name])
		}
	}

	return nil
}

func printSummary(s *analysis.SessionSummary) {
	fmt.Println("Rotations:")
	fmt.Printf("  committed   %d (%.2f/s)\n", s.Commits, s.RPSOverall)
	fmt.Printf("  undone      %d\n", s.Undos)
	if s.Commits > 1 {
		fmt.Printf("  avg gap     %.0fms, longest %dms, %d pauses\n", s.AvgCommitGapMs, s.LongestPauseMs, s.PauseCount)
	}
	if s.Profile.MostUsedAxis != "" {
		fmt.Printf("  by axis     X=%d Y=%d Z=%d\n", s.Profile.AxisCounts["X"], s.Profile.AxisCounts["Y"], s.Profile.AxisCounts["Z"])
	}

	cmds, ts := s.Sequence()
	report := analysis.MineNGrams(cmds, ts, 2, 6, 3)
	var lines []string
	for n := 6; n >= 2; n-- {
		for _, ng := range report.TopNGrams[n] {
			lines = append(lines, fmt.Sprintf("  %dx  %s", ng.Count, strings.Join(ng.Sequence, " ")))
		}
	}
	if len(lines) > 0 {
		fmt.Println("Repeated sequences:")
		for _, l := range lines {
			fmt.Println(l)
		}
	}
}

func printSession(s journal.Session) {
	line := fmt.Sprintf("  %s  %-8s  %s", s.SessionID[:8], s.Source, s.StartedAt.Local().Format(time.DateTime))
	if s.DurationMs != nil {
		line += fmt.Sprintf("  %s", (time.Duration(*s.DurationMs) * time.Millisecond).Round(time.Second))
	} else {
		line += "  (open)"
	}
	if s.Notes != nil {
		line += "  " + *s.Notes
	}
	fmt.Println(line)
}
