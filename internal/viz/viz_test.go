package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/corosph/internal/elasticity"
	"github.com/san-kum/corosph/internal/integrators"
	"github.com/san-kum/corosph/internal/particle"
	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Pixels(); w != 8 || h != 8 {
		t.Fatalf("expected 8x8 pixels, got %dx%d", w, h)
	}
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(-1, 3)
	c.Set(8, 0)
	if !c.Lit(0, 0) || !c.Lit(7, 7) || c.Lit(1, 0) {
		t.Error("unexpected lit dots")
	}
	if c.Count() != 2 {
		t.Errorf("expected 2 dots, got %d", c.Count())
	}

	c.Clear()
	c.DrawLine(0, 0, 7, 0)
	if c.Count() != 8 {
		t.Errorf("expected an 8 dot line, got %d", c.Count())
	}
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 4 {
		t.Errorf("unexpected rendering %q", c.String())
	}
}

func TestCameraProjection(t *testing.T) {
	cam := Frame(r3.Vec{}, r3.Vec{X: 2, Y: 1}, 0)
	x, y, _, ok := cam.Project(r3.Vec{X: 1, Y: 0.5}, 100, 100)
	if !ok || x != 50 || y != 50 {
		t.Errorf("centre should map to (50, 50), got (%d, %d)", x, y)
	}
	x2, y2, _, _ := cam.Project(r3.Vec{X: 1.5, Y: 1}, 100, 100)
	if x2 <= x || y2 >= y {
		t.Errorf("expected +x right and +y up, got (%d, %d)", x2, y2)
	}
	if _, _, _, ok := cam.Project(r3.Vec{X: 10}, 100, 100); ok {
		t.Error("far point should be off screen")
	}

	cam.Orbit(0, 10)
	if cam.Pitch > 1.5708 {
		t.Errorf("pitch should be clamped, got %g", cam.Pitch)
	}
}

func builder(t *testing.T) Builder {
	return func() (*sim.Simulator, sim.Config, error) {
		body := particle.Block(tensor.Dim2, 0.1, 6, 2, 1, 1000)
		body.Pin(func(p r3.Vec) bool { return p.X < 0.05 })
		solver := elasticity.New(elasticity.Config{YoungModulus: 1e5, PoissonRatio: 0.3, Dim: tensor.Dim2})
		integ, err := integrators.New("symplectic")
		if err != nil {
			t.Fatal(err)
		}
		cfg := sim.DefaultConfig()
		cfg.Dt = 1e-4
		cfg.Duration = 0.01
		cfg.Track = 11
		return sim.New(body, solver, integ), cfg, nil
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelSteps(t *testing.T) {
	m, err := NewModel("beam", builder(t), 5)
	if err != nil {
		t.Fatal(err)
	}

	next, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	m = next.(Model)
	if m.sim.Steps() != 5 || len(m.energy) != 1 {
		t.Errorf("expected 5 steps and 1 sample, got %d and %d", m.sim.Steps(), len(m.energy))
	}

	next, _ = m.Update(key("+"))
	m = next.(Model)
	if m.substeps != 10 {
		t.Errorf("expected 10 substeps, got %d", m.substeps)
	}

	next, _ = m.Update(key(" "))
	m = next.(Model)
	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if m.sim.Steps() != 5 {
		t.Errorf("paused model should not step, got %d", m.sim.Steps())
	}

	view := m.View()
	for _, want := range []string{"BEAM", "PAUSED", "Particles", "Tip"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelStopsAtDuration(t *testing.T) {
	m, err := NewModel("beam", builder(t), 64)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5 && !m.done; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if !m.done || m.sim.Steps() != 100 {
		t.Errorf("expected to stop after 100 steps, done=%v steps=%d", m.done, m.sim.Steps())
	}

	next, _ := m.Update(key("["))
	m = next.(Model)
	if m.playHead < 0 || m.running {
		t.Error("scrubbing should pause into replay")
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if m.sim.Steps() != 0 || m.done {
		t.Error("reset should rebuild the simulator")
	}
}

func TestDrawContacts(t *testing.T) {
	m, err := NewModel("beam", builder(t), 1)
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(TickMsg{})
	m = next.(Model)

	m.links = false
	m.draw()
	dots := m.canvas.Count()
	m.links = true
	m.draw()
	if m.canvas.Count() <= dots {
		t.Errorf("wireframe should add dots: %d vs %d", m.canvas.Count(), dots)
	}
}
