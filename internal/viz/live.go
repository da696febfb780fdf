package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/corosph/internal/metrics"
	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxSubsteps     = 4096
	orbitStep       = 0.15
)

// Builder assembles a fresh simulator; the live view calls it on start
// and on every reset.
type Builder func() (*sim.Simulator, sim.Config, error)

// snapshot is one replayable frame, positions ordered by original index.
type snapshot struct {
	positions []r3.Vec
	time      float64
	energy    float64
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is a bubbletea program that steps a simulator in real time and
// draws the body on a Braille canvas.
type Model struct {
	title    string
	build    Builder
	sim      *sim.Simulator
	cfg      sim.Config
	canvas   *Canvas
	camera   *Camera
	running  bool
	done     bool
	err      error
	substeps int
	links    bool

	energy    []float64
	history   []snapshot
	playHead  int
	peak      float64
	recording bool
	frames    []*image.Paletted
	gifPath   string
	showHelp  bool
}

// NewModel builds the first simulator. substeps is the number of solver
// steps advanced per rendered frame.
func NewModel(title string, build Builder, substeps int) (Model, error) {
	m := Model{
		title:    title,
		build:    build,
		canvas:   NewCanvas(width, height),
		substeps: max(1, substeps),
		links:    true,
		gifPath:  "corosph.gif",
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	s, cfg, err := m.build()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.sim, m.cfg = s, cfg
	lo, hi := s.Body().Bounds()
	// Leave room for sag and swing.
	m.camera = Frame(lo, hi, 0.35)
	if s.Body().Dim == tensor.Dim3 {
		m.camera.Orbit(0.6, 0.4)
	}
	m.running, m.done, m.err = true, false, nil
	m.energy = make([]float64, 0, historyCapacity)
	m.history = make([]snapshot, 0, historyCapacity)
	m.playHead = -1
	m.peak = 0
	return nil
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input and advances the simulation on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running {
				m.playHead = -1
			}
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "+", "=":
			m.substeps = min(maxSubsteps, m.substeps*2)
		case "-":
			m.substeps = max(1, m.substeps/2)
		case "l":
			m.links = !m.links
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, orbitStep)
		case "down", "j":
			m.camera.Orbit(0, -orbitStep)
		case "z":
			m.camera.ZoomIn()
		case "x":
			m.camera.ZoomOut()
		case "[":
			m.scrub(-10)
		case "]":
			m.scrub(10)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = m.frames[:0]
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		return m, nil

	case TickMsg:
		if m.running && !m.done && m.err == nil {
			m.advance()
		}
		if m.recording {
			m.draw()
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for k := 0; k < m.substeps; k++ {
		if m.sim.Steps() >= m.totalSteps() {
			m.done = true
			break
		}
		if err := m.sim.Step(m.cfg); err != nil {
			m.err = err
			m.running = false
			break
		}
	}

	body, solver := m.sim.Body(), m.sim.Solver()
	e := body.KineticEnergy() + solver.StrainEnergy()
	m.energy = appendCapped(m.energy, e)
	m.history = appendCapped(m.history, snapshot{positions: body.ByID(), time: m.sim.Time(), energy: e})
	m.peak = max(m.peak, metrics.MaxVonMises(solver))
}

func (m *Model) totalSteps() int {
	return int(math.Round(m.cfg.Duration / m.cfg.Dt))
}

func appendCapped[T any](s []T, v T) []T {
	if len(s) >= historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func (m *Model) scrub(dir int) {
	if len(m.history) == 0 {
		return
	}
	m.running = false
	if m.playHead < 0 {
		m.playHead = len(m.history) - 1
	}
	m.playHead = max(0, min(len(m.history)-1, m.playHead+dir))
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.playHead >= 0 && m.playHead < len(m.history) {
		DrawParticles(m.canvas, m.camera, m.history[m.playHead].positions)
		return
	}
	pos := m.sim.Body().Positions
	if m.links {
		DrawContacts(m.canvas, m.camera, pos, m.sim.Solver().Graph())
	}
	DrawParticles(m.canvas, m.camera, pos)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("FAILED: " + m.err.Error())
	case m.playHead >= 0:
		snap := m.history[m.playHead]
		return statusPaused.Render(fmt.Sprintf("REPLAY t=%.4fs", snap.time))
	case m.done:
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	case m.recording:
		return statusRunning.Render(fmt.Sprintf("RUNNING ● REC %d", len(m.frames)))
	}
	return statusRunning.Render("RUNNING")
}

// View renders the canvas beside a stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	body, solver := m.sim.Body(), m.sim.Solver()
	snap := m.sim.Snapshot()
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(ProgressBar(float64(m.sim.Steps())/float64(m.totalSteps()), 30) + "\n")
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(row("Time", fmt.Sprintf("%.4fs", m.sim.Time())))
	s.WriteString(row("Steps", fmt.Sprintf("%d (x%d/frame)", m.sim.Steps(), m.substeps)))
	s.WriteString(row("Particles", fmt.Sprintf("%d", body.Len())))
	s.WriteString(row("Kinetic", fmt.Sprintf("%.4g J", body.KineticEnergy())))
	s.WriteString(row("Strain", fmt.Sprintf("%.4g J", solver.StrainEnergy())))
	vm := metrics.MaxVonMises(solver)
	s.WriteString(row("Max stress", fmt.Sprintf("%.4g Pa", vm)))
	s.WriteString(labelStyle.Render("") + LoadBar(vm, m.peak, 20) + "\n")
	s.WriteString(row("Net force", fmt.Sprintf("%.2g N", r3.Norm(snap.ElasticForce))))
	if slot := metrics.Locate(body, m.cfg.Track); slot >= 0 {
		p := body.Positions[slot]
		s.WriteString(row("Tip", fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y)))
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space   pause / resume
  R       rebuild the scene
  + / -   double / halve steps per frame
  L       toggle contact wireframe
  Arrows  orbit camera (3D)
  Z / X   zoom in / out
  [ / ]   replay backwards / forwards
  G       toggle GIF recording
  Q       quit
`

// captureFrame rasterises the canvas, one 4x4 block per dot.
func (m *Model) captureFrame() {
	const dot = 4
	w, h := m.canvas.Pixels()
	img := image.NewPaletted(image.Rect(0, 0, w*dot, h*dot), color.Palette{color.Black, color.White})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.canvas.Lit(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}
