package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nbody/internal/physics"
)

const (
	width           = 64
	height          = 24
	historyCapacity = 600
	trailCapacity   = 400
	maxStepsPerTick = 4096
	frameInterval   = time.Second / 30

	// Neptune sits near 30 AU.
	defaultViewRadius = 34.0
)

type TickMsg time.Time

type point struct{ x, y float64 }

// Model holds the live system and everything needed to draw it.
type Model struct {
	sys, initial  physics.System
	dt            float64
	step          int
	stepsPerTick  int
	running       bool
	zoom          float64
	energy0       float64
	energyHistory []float64
	trails        [physics.NumBodies][]point
	canvas        *Canvas
	showHelp      bool
}

// NewModel starts a live view from sys, which should already have had its
// momentum offset applied.
func NewModel(sys physics.System, dt float64, stepsPerTick int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	m := Model{
		sys:           sys,
		initial:       sys,
		dt:            dt,
		stepsPerTick:  min(stepsPerTick, maxStepsPerTick),
		running:       true,
		zoom:          1,
		energy0:       sys.Energy(),
		energyHistory: make([]float64, 0, historyCapacity),
		canvas:        NewCanvas(width, height),
	}
	m.energyHistory = append(m.energyHistory, m.energy0)
	return m
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and advances the system on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.zoom = math.Min(m.zoom*1.25, 64)
		case "-", "_":
			m.zoom = math.Max(m.zoom/1.25, 1.0/8)
		case "f":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "s":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps and records energy and trails.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.sys.Advance(m.dt)
	}
	m.step += m.stepsPerTick

	m.energyHistory = append(m.energyHistory, m.sys.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	for i := range m.sys {
		b := &m.sys[i]
		m.trails[i] = append(m.trails[i], point{b.X, b.Y})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.sys = m.initial
	m.step = 0
	m.energyHistory = append(m.energyHistory[:0], m.energy0)
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
}

// Years is the simulated time; one time unit of the system is one year.
func (m Model) Years() float64 { return float64(m.step) * m.dt }

func (m Model) Step() int { return m.step }

func (m Model) Running() bool { return m.running }

func (m Model) Energy() float64 { return m.energyHistory[len(m.energyHistory)-1] }

// Drift is the relative energy change since the last reset.
func (m Model) Drift() float64 {
	if m.energy0 == 0 {
		return 0
	}
	return math.Abs(m.Energy()-m.energy0) / math.Abs(m.energy0)
}

// project maps ecliptic coordinates in AU to canvas sub-pixels, centered on
// the origin (the system barycenter).
func (m *Model) project(p point) (int, int) {
	cw, ch := m.canvas.Dims()
	radius := defaultViewRadius / m.zoom
	// Braille dots are roughly twice as tall as they are wide on screen.
	px := cw/2 + int(math.Round(p.x/radius*float64(ch)/2))
	py := ch/2 - int(math.Round(p.y/radius*float64(ch)/4))
	return px, py
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for _, p := range trail {
			m.canvas.Set(m.project(p))
		}
	}
	for i := range m.sys {
		b := &m.sys[i]
		x, y := m.project(point{b.X, b.Y})
		r := 1
		if i == physics.Sun {
			r = 2
		}
		m.canvas.Disc(x, y, r)
	}
}

// View renders the canvas and the stats panel side by side.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(Title.Render("JOVIAN PLANETS") + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(Row("Step", fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(Row("Years", fmt.Sprintf("%.2f", m.Years())) + "\n")
	s.WriteString(Row("Energy", fmt.Sprintf("%.9f", m.Energy())) + "\n")
	s.WriteString(MetricLabel.Render("Drift") + DriftStyle(m.Drift()).Render(fmt.Sprintf("%.3e", m.Drift())) + "\n")
	s.WriteString(Row("Steps/frame", fmt.Sprintf("%d", m.stepsPerTick)) + "\n")
	s.WriteString(Row("Zoom", fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.Precision(6),
			asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(36) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit\n+/-:Zoom F/S:Speed ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to initial state   ║
║  + / -    - Zoom in / out            ║
║  F / S    - Double / halve speed     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
