package compute

import (
	"sync/atomic"
	"testing"
)

func TestBackendsVisitEveryIndexOnce(t *testing.T) {
	backends := []Backend{
		SerialBackend{},
		NewCPUBackend(),
		NewCPUBackendWorkers(3),
		NewCPUBackendWorkers(0),
	}
	for _, b := range backends {
		for _, n := range []int{0, 1, 15, 16, 1000} {
			counts := make([]int32, n)
			b.For(n, func(i int) { atomic.AddInt32(&counts[i], 1) })
			for i, c := range counts {
				if c != 1 {
					t.Fatalf("%s n=%d: index %d visited %d times", b.Name(), n, i, c)
				}
			}
		}
	}
}

func TestSerialOrder(t *testing.T) {
	var order []int
	SerialBackend{}.For(5, func(i int) { order = append(order, i) })
	for i, v := range order {
		if v != i {
			t.Fatalf("expected in-order visit, got %v", order)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    string
		wantW   int
		wantErr bool
	}{
		{"cpu", 4, "cpu", 4, false},
		{"serial", 8, "serial", 1, false},
		{"gpu", 0, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.name, tt.workers)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Name() != tt.want || b.Workers() != tt.wantW {
				t.Errorf("got %s/%d, want %s/%d", b.Name(), b.Workers(), tt.want, tt.wantW)
			}
		})
	}
}

func TestDefaultBackend(t *testing.T) {
	prev := GetBackend()
	defer SetBackend(prev)

	SetBackend(SerialBackend{})
	if GetBackend().Name() != "serial" {
		t.Errorf("expected serial backend, got %s", GetBackend().Name())
	}
}
