package compute

import "fmt"

// Backend runs data-parallel loops. For calls fn exactly once for every i
// in [0, n) and returns after all calls have finished. Callers guarantee
// that distinct i write to disjoint memory.
type Backend interface {
	Name() string
	Workers() int
	For(n int, fn func(i int))
}

var activeBackend Backend

func init() {
	activeBackend = NewCPUBackend()
}

func SetBackend(b Backend) {
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// New returns the backend named name. workers <= 0 means one worker per
// CPU; it is ignored by the serial backend.
func New(name string, workers int) (Backend, error) {
	switch name {
	case "cpu", "":
		if workers > 0 {
			return NewCPUBackendWorkers(workers), nil
		}
		return NewCPUBackend(), nil
	case "serial":
		return SerialBackend{}, nil
	}
	return nil, fmt.Errorf("compute: unknown backend %q", name)
}
