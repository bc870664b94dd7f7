package main

import (
	"runtime"
	"sync"
)

// Pool abstracts printer pool operations for testability.
type Pool interface {
	Acquire() Printer
	Release(Printer)
	Size() int
}

// PrinterPool manages PDF printers for parallel processing.
// Each printer has its own browser instance, enabling true parallelism.
// Printers are created lazily on first acquire, so JSON and HTML
// batches never start a browser.
type PrinterPool struct {
	size     int
	newFn    func() Printer
	printers []Printer
	sem      chan Printer
	mu       sync.Mutex
	created  int
	closed   bool
}

// NewPrinterPool creates a pool with capacity for n printers built by
// newFn.
func NewPrinterPool(n int, newFn func() Printer) *PrinterPool {
	if n < 1 {
		n = 1
	}

	return &PrinterPool{
		size:     n,
		newFn:    newFn,
		printers: make([]Printer, 0, n),
		sem:      make(chan Printer, n),
	}
}

// Compile-time check that PrinterPool implements Pool.
var _ Pool = (*PrinterPool)(nil)

// Acquire gets a printer from the pool, creating one if needed.
// Blocks if all printers are in use.
func (p *PrinterPool) Acquire() Printer {
	// Try to get an existing printer (non-blocking)
	select {
	case prn := <-p.sem:
		return prn
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create outside the lock
		prn := p.newFn()

		p.mu.Lock()
		p.printers = append(p.printers, prn)
		p.mu.Unlock()

		return prn
	}
	p.mu.Unlock()

	// All printers created, wait for one to be released
	return <-p.sem
}

// Release returns a printer to the pool.
func (p *PrinterPool) Release(prn Printer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- prn
	}
}

// Close releases all browser resources.
func (p *PrinterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	printers := p.printers
	p.mu.Unlock()

	var lastErr error
	for _, prn := range printers {
		if err := prn.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *PrinterPool) Size() int {
	return p.size
}

// resolvePoolSize determines the worker count.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
