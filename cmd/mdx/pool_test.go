package main

import (
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name        string
		flagWorkers int
		want        int
	}{
		{"flag takes priority", 4, 4},
		{"flag=1 for sequential", 1, 1},
		{"flag=0 uses auto calculation", 0, min(max(gomaxprocs/2, 1), 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePoolSize(tt.flagWorkers)
			if got != tt.want {
				t.Errorf("resolvePoolSize(%d) = %d, want %d", tt.flagWorkers, got, tt.want)
			}
		})
	}
}

func TestPrinterPool_Lazy(t *testing.T) {
	t.Parallel()

	created := 0
	pool := NewPrinterPool(2, func() Printer {
		created++
		return &fakePrinter{}
	})

	if created != 0 {
		t.Fatalf("created %d printers before Acquire, want 0", created)
	}

	a := pool.Acquire()
	pool.Release(a)
	b := pool.Acquire()
	if a != b {
		t.Error("Acquire() should reuse a released printer")
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	pool.Release(b)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !a.(*fakePrinter).closed {
		t.Error("Close() did not close the printer")
	}
}

func TestPrinterPool_SizeFloor(t *testing.T) {
	t.Parallel()

	pool := NewPrinterPool(0, func() Printer { return &fakePrinter{} })
	defer pool.Close()

	if pool.Size() != 1 {
		t.Errorf("Size() = %d, want 1", pool.Size())
	}
}

func TestPrinterPool_BlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	pool := NewPrinterPool(1, func() Printer { return &fakePrinter{} })
	defer pool.Close()

	first := pool.Acquire()

	var wg sync.WaitGroup
	acquired := make(chan Printer, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		acquired <- pool.Acquire()
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire() returned while the only printer was in use")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(first)
	wg.Wait()
	if got := <-acquired; got != first {
		t.Error("Acquire() should return the released printer")
	}
}

func TestPrinterPool_CloseIdempotent(t *testing.T) {
	t.Parallel()

	pool := NewPrinterPool(1, func() Printer { return &fakePrinter{} })
	pool.Release(pool.Acquire())

	if err := pool.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	// Release after close must not panic on the closed channel.
	pool.Release(&fakePrinter{})
}
