// Package tui renders a running simulation in the terminal.
package tui

import (
	"context"
	"fmt"
	"math/cmplx"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/kutta"
	"github.com/san-kum/vortshed/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

type snapshotMsg sim.Snapshot

type doneMsg struct{ err error }

type observerFunc func(s sim.Snapshot)

func (f observerFunc) OnStep(s sim.Snapshot) { f(s) }

type model struct {
	preset   string
	duration float64

	snaps  <-chan sim.Snapshot
	done   <-chan error
	cancel context.CancelFunc

	// body outline in frame coordinates, rotated per snapshot
	outline []complex128

	latest  sim.Snapshot
	impulse []float64
	haveAny bool

	width    int
	height   int
	finished bool
	err      error
}

// Live runs the marcher in the background and animates the wake until
// the run completes or the user quits.
func Live(preset string, b *body.Body, edges []kutta.Edge, cfg sim.Config) error {
	snaps := make(chan sim.Snapshot, 64)
	done := make(chan error, 1)

	marcher := sim.New(b, edges)
	marcher.AddObserver(observerFunc(func(s sim.Snapshot) {
		select {
		case snaps <- s:
		default: // rendering is behind, drop the frame
		}
	}))

	outline := make([]complex128, len(b.Shape.Boundary()))
	for i, zeta := range b.Shape.Boundary() {
		outline[i] = b.Shape.Transform(zeta)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, err := marcher.Run(ctx, cfg)
		close(snaps)
		done <- err
	}()

	m := model{
		preset:   preset,
		duration: cfg.Duration,
		snaps:    snaps,
		done:     done,
		cancel:   cancel,
		outline:  outline,
		width:    80,
		height:   24,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	cancel()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil && fm.err != context.Canceled {
		return fm.err
	}
	return nil
}

func (m model) Init() tea.Cmd { return m.wait() }

func (m model) wait() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.snaps
		if !ok {
			return doneMsg{err: <-m.done}
		}
		return snapshotMsg(s)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.latest = sim.Snapshot(msg)
		m.haveAny = true
		m.impulse = append(m.impulse, imag(m.latest.Impulse))
		if len(m.impulse) > 240 {
			m.impulse = m.impulse[1:]
		}
		return m, m.wait()
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	status := green.Render("● running")
	if m.finished {
		if m.err != nil {
			status = red.Render("✕ " + m.err.Error())
		} else {
			status = dim.Render("○ finished")
		}
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s\n", cyan.Render(m.preset), status))

	progress := 0.0
	if m.duration > 0 {
		progress = m.latest.Time / m.duration
	}
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s\n\n", bar,
		dim.Render(fmt.Sprintf("t=%.3f/%.3f", m.latest.Time, m.duration))))

	if !m.haveAny {
		b.WriteString(dim.Render("   waiting for first step...") + "\n")
		return b.String()
	}

	b.WriteString(m.viewWake())

	b.WriteString(fmt.Sprintf("\n   %s %d   %s %s   %s %s\n",
		dim.Render("blobs"), len(m.latest.Blobs),
		dim.Render("Γ wake"), white.Render(fmt.Sprintf("%+.4f", m.latest.WakeCirculation)),
		dim.Render("Γ bound"), white.Render(fmt.Sprintf("%+.4f", m.latest.BoundCirculation))))

	if len(m.impulse) > 1 {
		graph := asciigraph.Plot(m.impulse,
			asciigraph.Height(6),
			asciigraph.Width(m.width-12),
			asciigraph.Caption("impulse y"),
		)
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("   " + dim.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + dim.Render("   q quit") + "\n")
	return b.String()
}

func (m model) viewWake() string {
	cw := m.width - 6
	ch := m.height - 16
	if cw < 50 {
		cw = 50
	}
	if ch < 8 {
		ch = 8
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	minX, maxX, minY, maxY := bounds(m.latest, m.outline)
	rot := cmplx.Exp(complex(0, m.latest.BodyAngle))
	toCell := func(z complex128) (int, int) {
		x := int((real(z) - minX) / (maxX - minX) * float64(cw-1))
		y := ch - 1 - int((imag(z)-minY)/(maxY-minY)*float64(ch-1))
		return x, y
	}

	for _, zeta := range m.outline {
		x, y := toCell(m.latest.BodyPos + rot*zeta)
		set(canvas, x, y, '#', cw, ch)
	}
	for _, blob := range m.latest.Blobs {
		c := '·'
		if blob.Gamma > 0 {
			c = '+'
		} else if blob.Gamma < 0 {
			c = '-'
		}
		x, y := toCell(blob.Pos)
		set(canvas, x, y, c, cw, ch)
	}

	var b strings.Builder
	for _, row := range canvas {
		line := string(row)
		line = strings.ReplaceAll(line, "+", red.Render("+"))
		line = strings.ReplaceAll(line, "-", blue.Render("-"))
		b.WriteString("   " + line + "\n")
	}
	return b.String()
}

func bounds(snap sim.Snapshot, outline []complex128) (minX, maxX, minY, maxY float64) {
	minX, maxX = real(snap.BodyPos), real(snap.BodyPos)
	minY, maxY = imag(snap.BodyPos), imag(snap.BodyPos)
	expand := func(z complex128) {
		if real(z) < minX {
			minX = real(z)
		}
		if real(z) > maxX {
			maxX = real(z)
		}
		if imag(z) < minY {
			minY = imag(z)
		}
		if imag(z) > maxY {
			maxY = imag(z)
		}
	}
	rot := cmplx.Exp(complex(0, snap.BodyAngle))
	for _, zeta := range outline {
		expand(snap.BodyPos + rot*zeta)
	}
	for _, blob := range snap.Blobs {
		expand(blob.Pos)
	}
	if maxX-minX < 1e-9 {
		maxX = minX + 1
	}
	if maxY-minY < 1e-9 {
		maxY = minY + 1
	}
	padX := (maxX - minX) * 0.08
	padY := (maxY - minY) * 0.15
	return minX - padX, maxX + padX, minY - padY, maxY + padY
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}
