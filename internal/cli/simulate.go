package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
	"github.com/SeamusWaldron/cubetwist/internal/trace"
)

var (
	simulateJournal bool
	simulateSteps   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <trace.yaml>...",
	Short: "Replay gesture traces headlessly",
	Long: `Replay recorded or hand-written gesture traces against the engine and a
headless scene on virtual time, then check each trace's expectations.

Examples:
  cubetwist simulate flick.yaml
  cubetwist simulate --steps traces/*.yaml
  cubetwist simulate --journal stuck.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().BoolVar(&simulateJournal, "journal", false, "Write each playback to the journal")
	simulateCmd.Flags().BoolVar(&simulateSteps, "steps", false, "Print every event's outcome")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var db *journal.DB
	if simulateJournal {
		db, err = openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	failed := 0
	for _, path := range args {
		t, err := trace.Load(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		opts := append(cfg.Options(), cubetwist.WithLogger(logger))
		player := trace.NewPlayer(t, sceneOptions(cfg, logger), opts...)

		var rec *journal.Recorder
		if db != nil {
			rec = journal.NewRecorder(db, player.Clock(), logger.Named("journal"))
			rec.Attach(player.Engine())
			if _, err := rec.Start("simulate", filepath.Base(path)); err != nil {
				return err
			}
		}

		res, err := player.Run()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if rec != nil {
			if err := rec.End(); err != nil {
				return err
			}
		}

		name := t.Name
		if name == "" {
			name = filepath.Base(path)
		}
		checkErr := res.Check(t.Expect)
		status := "ok"
		if checkErr != nil || !res.InSync {
			status = "FAIL"
			failed++
		}

		fmt.Printf("%-4s %s (%s virtual)\n", status, name, res.Elapsed)
		fmt.Printf("     commits: [%s]  drops: %d  recoveries: %d  gestures: %d\n",
			cubetwist.FormatCommands(res.Commits), len(res.Drops), len(res.Recoveries), len(res.Gestures))
		if !res.InSync {
			fmt.Println("     scene out of sync with lattice")
		}
		if checkErr != nil {
			for _, line := range strings.Split(checkErr.Error(), "\n") {
				fmt.Printf("     %s\n", line)
			}
		}
		if simulateSteps {
			printSteps(res)
		}
		if rec != nil {
			fmt.Printf("     session: %s\n", rec.SessionID())
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(args))
	}
	return nil
}

func printSteps(res *trace.Result) {
	for _, s := range res.Steps {
		line := fmt.Sprintf("     %3d %8s %-6s", s.Index, s.At, s.Type)
		if s.Type == trace.EventMove {
			line += fmt.Sprintf(" %s/%s", s.Decision.Kind, s.Decision.Rule)
		}
		if s.Command != "" {
			line += " -> " + s.Command
		}
		if s.Err != nil {
			line += " (" + s.Err.Error() + ")"
		}
		fmt.Println(line)
	}
}
