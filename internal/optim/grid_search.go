// Package optim sweeps scene parameters over a grid and ranks the runs by
// a metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/experiment"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

var setters = map[string]func(c *config.Config, v float64){
	"young":          func(c *config.Config, v float64) { c.Material.Young = v },
	"poisson":        func(c *config.Config, v float64) { c.Material.Poisson = v },
	"rest_density":   func(c *config.Config, v float64) { c.Material.RestDensity = v },
	"spacing":        func(c *config.Config, v float64) { c.Scene.Spacing = v },
	"support_factor": func(c *config.Config, v float64) { c.Scene.SupportFactor = v },
	"spin":           func(c *config.Config, v float64) { c.Scene.Spin = v },
	"squeeze":        func(c *config.Config, v float64) { c.Scene.Squeeze = v },
	"dt":             func(c *config.Config, v float64) { c.Run.Dt = v },
	"gravity":        func(c *config.Config, v float64) { c.Run.Gravity = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the named parameter on cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	set, ok := setters[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	set(cfg, v)
	return nil
}

// ParseAxis reads "name=v1,v2,..." into a parameter name and its values.
func ParseAxis(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || list == "" {
		return "", nil, fmt.Errorf("optim: axis %q is not name=v1,v2,...", s)
	}
	if _, ok := setters[name]; !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	var values []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("optim: axis %s: %w", name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// Point is one grid node and the outcome of its run. Err holds a build or
// run failure; an unstable point does not stop the sweep.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Steps   int
	Err     error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        *slog.Logger
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := setters[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: parameter %s has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: slog.Default()}, nil
}

func (g *GridSearch) SetLogger(l *slog.Logger) { g.log = l }

// Points enumerates the grid, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		p := make(map[string]float64, len(current))
		for k, v := range current {
			p[k] = v
		}
		*out = append(*out, p)
		return
	}
	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		g.enumerate(depth+1, current, out)
	}
	delete(current, name)
}

// Run builds and runs every grid point from base, at most limit at a time.
// Only context cancellation aborts the sweep.
func (g *GridSearch) Run(ctx context.Context, base *config.Config, limit int) ([]Point, error) {
	params := g.Points()
	points := make([]Point, len(params))

	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, p := range params {
		eg.Go(func() error {
			points[i] = g.runPoint(ctx, base, p)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return points, err
	}
	return points, nil
}

func (g *GridSearch) runPoint(ctx context.Context, base *config.Config, params map[string]float64) Point {
	pt := Point{Params: params}
	cfg := base.Clone()
	for name, v := range params {
		setters[name](cfg, v)
	}
	exp, err := experiment.New(cfg, g.log)
	if err != nil {
		pt.Err = err
		return pt
	}
	res, err := exp.Run(ctx)
	if res != nil {
		pt.Metrics = res.Metrics
		pt.Steps = res.StepsTaken
	}
	pt.Err = err
	g.log.Debug("grid point done", "params", params, "err", err)
	return pt
}

// Best returns the successful point with the lowest value of metric, or
// the highest when maximize is set.
func Best(points []Point, metric string, maximize bool) (Point, bool) {
	best := math.Inf(1)
	if maximize {
		best = math.Inf(-1)
	}
	var out Point
	found := false
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		v, ok := p.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if (maximize && v > best) || (!maximize && v < best) {
			best, out, found = v, p, true
		}
	}
	return out, found
}
