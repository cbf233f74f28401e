// Package analysis derives statistics from journaled sessions: rotation
// rate, pauses, axis usage, undone turns and repeated sequences.
package analysis

import (
	"strings"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/journal"
)

// DefaultPauseMs is the gap between commits reported as a pause.
const DefaultPauseMs = 1500

// SessionSummary contains statistics for a single session.
type SessionSummary struct {
	SessionID      string           `json:"session_id"`
	DurationMs     int64            `json:"duration_ms"`
	Gestures       int              `json:"gestures"`
	Twists         int              `json:"twists"`
	Commits        int              `json:"commits"`
	Drops          int              `json:"drops"`
	Recoveries     int              `json:"recoveries"`
	TwistSuccess   float64          `json:"twist_success"`
	RPSOverall     float64          `json:"rps_overall"`
	LongestPauseMs int64            `json:"longest_pause_ms"`
	PauseCount     int              `json:"pause_count"`
	AvgCommitGapMs float64          `json:"avg_commit_gap_ms"`
	Undos          int              `json:"undos"`
	Profile        *MovementProfile `json:"profile"`
	Commands       []string         `json:"commands"`

	commitTimestamps []int64
	commitSequence   []cubetwist.RotationCommand
}

// Sequence returns the committed rotations in order with their
// timestamps, the input MineNGrams takes.
func (s *SessionSummary) Sequence() ([]cubetwist.RotationCommand, []int64) {
	return s.commitSequence, s.commitTimestamps
}

// Summarize computes the summary of one session's events, ordered by time.
// durationMs is the session length; zero uses the last event time.
func Summarize(sessionID string, events []journal.Event, durationMs int64) *SessionSummary {
	s := &SessionSummary{SessionID: sessionID, DurationMs: durationMs}

	for _, e := range events {
		switch e.Kind {
		case journal.KindGesture:
			s.Gestures++
			if e.Detail != nil && strings.HasPrefix(*e.Detail, "kind="+cubetwist.GestureTwist.String()+" ") {
				s.Twists++
			}
		case journal.KindCommit:
			if e.Command == nil {
				continue
			}
			cmd, err := cubetwist.ParseCommand(*e.Command)
			if err != nil {
				continue
			}
			s.Commits++
			s.commitSequence = append(s.commitSequence, cmd)
			s.commitTimestamps = append(s.commitTimestamps, e.TsMs)
			s.Commands = append(s.Commands, cmd.String())
		case journal.KindDrop:
			s.Drops++
		case journal.KindRecover:
			s.Recoveries++
		}
		if durationMs == 0 && e.TsMs > s.DurationMs {
			s.DurationMs = e.TsMs
		}
	}

	if s.Commits+s.Drops > 0 {
		s.TwistSuccess = float64(s.Commits) / float64(s.Commits+s.Drops)
	}
	s.RPSOverall = CalculateRate(s.Commits, s.DurationMs)
	s.LongestPauseMs = FindLongestPause(s.commitTimestamps)
	s.PauseCount = len(AnalyzePauses(s.commitTimestamps, DefaultPauseMs))
	s.AvgCommitGapMs = CalculateAvgGap(s.commitTimestamps)
	s.Undos = CountUndos(s.commitSequence)
	s.Profile = AnalyzeMovementProfile(s.commitSequence)
	return s
}

// PauseInfo represents a pause between commits.
type PauseInfo struct {
	AfterIndex int   `json:"after_index"`
	DurationMs int64 `json:"duration_ms"`
	TsMs       int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(ts []int64, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo
	for i := 1; i < len(ts); i++ {
		gap := ts[i] - ts[i-1]
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterIndex: i - 1,
				DurationMs: gap,
				TsMs:       ts[i-1],
			})
		}
	}
	return pauses
}

// CalculateRate calculates rotations per second.
func CalculateRate(count int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(count) / (float64(durationMs) / 1000.0)
}

// CalculateAvgGap calculates the average time between consecutive entries.
func CalculateAvgGap(ts []int64) float64 {
	if len(ts) < 2 {
		return 0
	}
	return float64(ts[len(ts)-1]-ts[0]) / float64(len(ts)-1)
}

// FindLongestPause finds the longest gap.
func FindLongestPause(ts []int64) int64 {
	var longest int64
	for i := 1; i < len(ts); i++ {
		if gap := ts[i] - ts[i-1]; gap > longest {
			longest = gap
		}
	}
	return longest
}

// CountUndos counts rotations immediately followed by their inverse.
// Overlapping pairs are not double counted.
func CountUndos(cmds []cubetwist.RotationCommand) int {
	n := 0
	for i := 1; i < len(cmds); i++ {
		if cmds[i] == cmds[i-1].Inverse() {
			n++
			i++
		}
	}
	return n
}

// MovementProfile shows which axes and slices are turned most.
type MovementProfile struct {
	AxisCounts   map[string]int `json:"axis_counts"`
	SliceCounts  map[string]int `json:"slice_counts"` // e.g. "Y0" for both directions
	Clockwise    int            `json:"clockwise"`
	MostUsedAxis string         `json:"most_used_axis,omitempty"`
}

// AnalyzeMovementProfile analyzes which axes and slices are most used.
func AnalyzeMovementProfile(cmds []cubetwist.RotationCommand) *MovementProfile {
	p := &MovementProfile{
		AxisCounts:  make(map[string]int),
		SliceCounts: make(map[string]int),
	}
	for _, c := range cmds {
		p.AxisCounts[c.Axis.String()]++
		p.SliceCounts[cubetwist.RotationCommand{Axis: c.Axis, Layer: c.Layer, Clockwise: true}.String()]++
		if c.Clockwise {
			p.Clockwise++
		}
	}

	best := 0
	for _, axis := range []cubetwist.Axis{cubetwist.AxisX, cubetwist.AxisY, cubetwist.AxisZ} {
		if n := p.AxisCounts[axis.String()]; n > best {
			best = n
			p.MostUsedAxis = axis.String()
		}
	}
	return p
}
