package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/sim"
)

func TestPoints(t *testing.T) {
	g, err := NewGridSearch([]string{"young", "poisson"}, [][]float64{{1, 2, 3}, {0.1, 0.2}})
	if err != nil {
		t.Fatal(err)
	}
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("expected 6 points, got %d", len(pts))
	}
	if pts[0]["young"] != 1 || pts[0]["poisson"] != 0.1 || pts[1]["poisson"] != 0.2 || pts[5]["young"] != 3 {
		t.Errorf("unexpected order: %v", pts)
	}
}

func TestNewGridSearchRejects(t *testing.T) {
	if _, err := NewGridSearch([]string{"mass"}, [][]float64{{1}}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := NewGridSearch([]string{"young"}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := NewGridSearch([]string{"young"}, [][]float64{{}}); err == nil {
		t.Error("expected empty range error")
	}
}

func TestParseAxis(t *testing.T) {
	name, vals, err := ParseAxis("young=1e5, 2e5,4e5")
	if err != nil || name != "young" || len(vals) != 3 || vals[2] != 4e5 {
		t.Errorf("unexpected parse: %s %v %v", name, vals, err)
	}
	for _, bad := range []string{"young", "young=", "bogus=1", "young=a"} {
		if _, _, err := ParseAxis(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApply(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, name := range ParamNames() {
		if err := Apply(cfg, name, 0.25); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if cfg.Material.Poisson != 0.25 || cfg.Run.Dt != 0.25 {
		t.Errorf("parameters not applied: %+v", cfg)
	}
	if err := Apply(cfg, "nope", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestBest(t *testing.T) {
	points := []Point{
		{Metrics: map[string]float64{"m": 3}},
		{Metrics: map[string]float64{"m": 1}},
		{Metrics: map[string]float64{"m": 0}, Err: errors.New("failed")},
		{Metrics: map[string]float64{"m": 5}},
	}
	if p, ok := Best(points, "m", false); !ok || p.Metrics["m"] != 1 {
		t.Errorf("expected minimum 1, got %v", p.Metrics)
	}
	if p, ok := Best(points, "m", true); !ok || p.Metrics["m"] != 5 {
		t.Errorf("expected maximum 5, got %v", p.Metrics)
	}
	if _, ok := Best(points, "other", false); ok {
		t.Error("expected no best for a missing metric")
	}
}

func TestRunKeepsGoingPastUnstablePoints(t *testing.T) {
	base := config.DefaultConfig()
	base.Scene.NX, base.Scene.NY = 6, 2
	base.Run.Dt = 1e-3
	base.Run.Duration = 0.2
	base.Run.RecordEvery = 50

	g, err := NewGridSearch([]string{"young"}, [][]float64{{1e5, 1e13}})
	if err != nil {
		t.Fatal(err)
	}
	points, err := g.Run(context.Background(), base, 2)
	if err != nil {
		t.Fatal(err)
	}
	if points[0].Err != nil || points[0].Steps != 200 {
		t.Errorf("soft point should finish: %+v", points[0])
	}
	if !errors.Is(points[1].Err, sim.ErrInvalidState) {
		t.Errorf("stiff point should go unstable, got %v", points[1].Err)
	}
	best, ok := Best(points, "tip_displacement", true)
	if !ok || best.Params["young"] != 1e5 {
		t.Errorf("unexpected best point %+v", best)
	}
}
