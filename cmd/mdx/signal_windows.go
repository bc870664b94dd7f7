//go:build windows

package main

import "os"

// Windows only delivers os.Interrupt.
var stopSignals = []os.Signal{os.Interrupt}
