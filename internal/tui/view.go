package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubetwist"
	"github.com/SeamusWaldron/cubetwist/internal/scene"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	busyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

var stickerColors = map[scene.Color]lipgloss.Color{
	scene.White:  lipgloss.Color("15"),
	scene.Yellow: lipgloss.Color("11"),
	scene.Green:  lipgloss.Color("34"),
	scene.Blue:   lipgloss.Color("27"),
	scene.Red:    lipgloss.Color("160"),
	scene.Orange: lipgloss.Color("208"),
}

// maxMoves is how many recent moves the footer shows.
const maxMoves = 12

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("cubetwist"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	// Canvas
	b.WriteString(m.canvas())

	// Footer
	b.WriteString("\n")
	if len(m.moves) > 0 {
		recent := m.moves[max(len(m.moves)-maxMoves, 0):]
		b.WriteString(moveStyle.Render(cubetwist.FormatCommands(recent)))
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.debug && m.gesture != nil:
		s := m.gesture.Summary
		b.WriteString(statusStyle.Render(fmt.Sprintf("last gesture: %s by %s, %.0fpx in %s",
			s.Kind, s.Rule, s.Distance, s.Duration)))
	case m.lastDrop != "":
		b.WriteString(statusStyle.Render("dropped: " + m.lastDrop))
	}
	b.WriteString("\n")

	help := "drag a sticker to twist, drag space to orbit | arrows=orbit r=reset d=debug q=quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) statusLine() string {
	var parts []string
	if cmd, ok := m.engine.Animator().InFlight(); ok {
		parts = append(parts, busyStyle.Render("turning "+cmd.String()))
	} else if m.flash > 0 {
		parts = append(parts, busyStyle.Render("twist!"))
	}

	status := fmt.Sprintf("moves: %d", len(m.moves))
	if m.engine.Lattice().IsIdentity() {
		status += "  solved"
	}
	if m.recoveries > 0 {
		status += fmt.Sprintf("  recoveries: %d", m.recoveries)
	}
	if m.debug {
		cam := m.scene.Camera()
		status += fmt.Sprintf("  phase: %s  yaw %.2f pitch %.2f", m.engine.Phase(), cam.Yaw, cam.Pitch)
	}
	parts = append(parts, statusStyle.Render(status))
	return strings.Join(parts, "  ")
}

// canvas rasterises the projected stickers, one sample per cell.
func (m *Model) canvas() string {
	v := m.scene.Viewport()
	cols := v.Width / CellWidth
	rows := v.Height / CellHeight
	stickers := m.scene.Stickers()

	var b strings.Builder
	for r := 0; r < rows; r++ {
		var run strings.Builder
		runColor := lipgloss.Color("")
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Background(runColor).Render(run.String()))
			}
			run.Reset()
		}

		for c := 0; c < cols; c++ {
			p := cubetwist.Vec2{(float64(c) + 0.5) * CellWidth, (float64(r) + 0.5) * CellHeight}
			color := lipgloss.Color("")
			// Stickers are sorted far to near; the last hit is on top.
			for i := len(stickers) - 1; i >= 0; i-- {
				if stickers[i].Contains(p) {
					color = stickerColors[stickers[i].Color]
					break
				}
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteByte(' ')
		}
		flush()
		b.WriteString("\n")
	}
	return b.String()
}
