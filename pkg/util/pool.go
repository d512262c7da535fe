package util

import "runtime"

// WorkerLimit returns the number of goroutines used for parallel reference loads.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Catalog builds are I/O bound (one small JSON read per part file), so the
// limit runs ahead of the core count. The cap keeps file descriptor usage
// bounded on large machines.
func WorkerLimit() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		n = 4
	}
	if n > 32 {
		n = 32
	}
	return n
}
