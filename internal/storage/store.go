package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	framesFile    = "frames.csv"
	particlesFile = "particles.csv"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Shape      string             `json:"shape"`
	Dim        int                `json:"dim"`
	Particles  int                `json:"particles"`
	Young      float64            `json:"young"`
	Poisson    float64            `json:"poisson"`
	Nonlinear  bool               `json:"nonlinear"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Reorders   int                `json:"reorders"`
	ElapsedMS  int64              `json:"elapsed_ms"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newMetadata(id, name string, cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		ID:         id,
		Name:       name,
		Timestamp:  time.Now(),
		Shape:      cfg.Scene.Shape,
		Dim:        cfg.Scene.Dim,
		Particles:  len(result.Particles),
		Young:      cfg.Material.Young,
		Poisson:    cfg.Material.Poisson,
		Nonlinear:  cfg.Material.Nonlinear,
		Integrator: cfg.Run.Integrator,
		Dt:         cfg.Run.Dt,
		Duration:   cfg.Run.Duration,
		Steps:      result.StepsTaken,
		Reorders:   result.Reorders,
		ElapsedMS:  result.Elapsed.Milliseconds(),
		Metrics:    result.Metrics,
	}
}

// Save writes a run directory holding metadata.json, the config that
// produced the run, frames.csv and particles.csv. It returns the run ID.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	runID, runDir, err := s.newRunDir(name)
	if err != nil {
		return "", err
	}

	meta := newMetadata(runID, name, cfg, result)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", fmt.Errorf("writing frames: %w", err)
	}
	if err := writeCSV(filepath.Join(runDir, particlesFile), result.Particles); err != nil {
		return "", fmt.Errorf("writing particles: %w", err)
	}
	return runID, nil
}

func (s *Store) newRunDir(name string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for n := 1; ; n++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	defer f.Close()
	return gocsv.UnmarshalFile(f, out)
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig returns the config a run was produced with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, configFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return config.Load(path)
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	var frames []sim.Frame
	if err := readCSV(filepath.Join(s.baseDir, runID, framesFile), &frames); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return frames, nil
}

func (s *Store) LoadParticles(runID string) ([]sim.Particle, error) {
	var particles []sim.Particle
	if err := readCSV(filepath.Join(s.baseDir, runID, particlesFile), &particles); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return particles, nil
}

type ExportData struct {
	Run       RunMetadata    `json:"run"`
	Frames    []sim.Frame    `json:"frames"`
	Particles []sim.Particle `json:"particles"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	particles, err := s.LoadParticles(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Frames: frames, Particles: particles})
}

// ExportCSV writes the frames of a stored run.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(frames, w)
}
