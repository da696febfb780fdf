package compute

import (
	"runtime"

	"github.com/dgravesa/go-parallel/parallel"
)

// minParallel is the loop length below which goroutine startup costs more
// than the loop body.
const minParallel = 16

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func NewCPUBackendWorkers(workers int) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) For(n int, fn func(i int)) {
	if n < minParallel || c.workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	parallel.WithNumGoroutines(c.workers).For(n, func(i, _ int) {
		fn(i)
	})
}

// SerialBackend runs loops on the calling goroutine, in index order.
type SerialBackend struct{}

func (SerialBackend) Name() string { return "serial" }
func (SerialBackend) Workers() int { return 1 }

func (SerialBackend) For(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}
