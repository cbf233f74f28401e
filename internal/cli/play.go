package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
	"github.com/SeamusWaldron/cubetwist/internal/tui"
)

var (
	playNotes string
	playTrace string
	playQuiet bool
	playFresh bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive cube in the terminal",
	Long: `Start an interactive TUI that draws the cube and turns slices with the mouse.

Mouse:
  drag a sticker      - Twist the slice under it (short, fast swipes)
  drag empty space    - Orbit the camera (long or continuous drags)

Keyboard shortcuts:
  arrows  - Orbit the camera
  r       - Reset to the solved layout
  d       - Toggle debug status
  q/Esc   - Quit

Gestures, rotations and recoveries are written to the journal when it is
enabled in the configuration.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playNotes, "notes", "", "Notes for this session")
	playCmd.Flags().StringVar(&playTrace, "trace", "", "Record the pointer stream to this YAML file")
	playCmd.Flags().BoolVar(&playQuiet, "quiet", false, "Disable the terminal bell on decisive twists")
	playCmd.Flags().BoolVar(&playFresh, "fresh", false, "Start from the configured camera instead of the last one")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state, err := config.NewDefaultStateFile()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if !playFresh {
		state.ApplyCamera(&cfg)
	}

	// The TUI owns the terminal, so console logging goes to a file.
	if cfg.Log.Output == "stderr" || cfg.Log.Output == "stdout" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.Log.Output = filepath.Join(dir, "play.log")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var opts []tui.Option
	opts = append(opts, tui.WithLogger(logger.Named("tui")))
	if !playQuiet {
		opts = append(opts, tui.WithBell(os.Stdout))
	}
	if playTrace != "" {
		opts = append(opts, tui.WithTrace(playTrace))
	}

	s := scene.New(sceneOptions(cfg, logger)...)
	engineOpts := append(cfg.Options(), cubetwist.WithLogger(logger))
	model := tui.New(s, engineOpts, opts...)

	var rec *journal.Recorder
	if cfg.Journal.Enabled {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		rec = journal.NewRecorder(db, cubetwist.SystemClock{}, logger.Named("journal"))
		rec.Attach(model.Engine())
		if _, err := rec.Start("play", playNotes); err != nil {
			return err
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	start := time.Now()
	_, runErr := p.Run()

	if rec != nil {
		if err := rec.End(); err != nil {
			logger.Error("failed to end journal session", zap.Error(err))
		}
	}
	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}

	cam := s.Camera()
	if err := state.SetCamera(cam.Yaw, cam.Pitch); err != nil {
		logger.Warn("failed to save state", zap.Error(err))
	}
	if rec != nil {
		state.SetLastSession(rec.SessionID())
	}
	if playTrace != "" {
		state.SetLastTrace(playTrace)
	}

	moves := model.Moves()
	fmt.Printf("Played %s, %d rotations committed\n", time.Since(start).Round(time.Second), len(moves))
	if len(moves) > 0 {
		fmt.Println(cubetwist.FormatCommands(moves))
	}
	if rec != nil {
		fmt.Printf("Session: %s\n", rec.SessionID())
	}
	if playTrace != "" {
		fmt.Printf("Trace: %s\n", playTrace)
	}
	return nil
}
