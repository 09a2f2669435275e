// internal/engine/batch/concurrency.go
package batch

import (
	"runtime"
)

const (
	maxConcurrency = 50
	// rough resident cost of one rendering browser tab
	tabMemoryMB = 50
)

// OptimalConcurrency suggests a worker count from CPU and memory headroom.
// Batches run sequentially by default; this backs --concurrency 0.
func OptimalConcurrency() int {
	// fetching is I/O bound
	optimal := min(runtime.NumCPU()*3, maxConcurrency)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if byMemory := int((m.Sys - m.Alloc) / 1024 / 1024 / tabMemoryMB); byMemory > 0 && byMemory < optimal {
		return byMemory
	}
	return optimal
}
