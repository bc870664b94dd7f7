//go:build !windows

package main

import (
	"os"
	"syscall"
)

// stopSignals end a batch or a watch session.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
