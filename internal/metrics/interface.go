package metrics

import (
	"context"
	"time"
)

// Provider reads instantaneous OS-level counters. Implementations are
// stateless per call; any individual metric that cannot be read degrades to
// its zero value instead of failing the whole sample.
type Provider interface {
	Sample(ctx context.Context) Sample
}

// TemperatureResolver resolves a CPU temperature from an ordered chain of
// sources.
type TemperatureResolver interface {
	Resolve() (string, bool)
}

// Counters is a pair of network byte counts at a point in time.
type Counters struct {
	BytesSent uint64
	BytesRecv uint64
}

// DiskUsage describes one mounted filesystem.
type DiskUsage struct {
	Percent float64
	Total   uint64
	Used    uint64
	Free    uint64
}

// Sample holds the raw values read in one provider call.
type Sample struct {
	Timestamp time.Time

	CPUPercent      float64
	CPUFrequencyGHz float64 // 0 when the platform does not expose it

	MemoryTotal   uint64
	MemoryUsed    uint64
	MemoryPercent float64

	SwapTotal   uint64
	SwapUsed    uint64
	SwapPercent float64

	Net   Counters
	NetOK bool

	// Disks maps mount path to usage; Mounts holds the paths in sorted
	// order so disk iteration is deterministic.
	Disks  map[string]DiskUsage
	Mounts []string
}

// Snapshot is the immutable value produced once per tick: a raw sample plus
// the derived network rates and the resolved temperature.
type Snapshot struct {
	Sample

	CPUTemperature string // empty when no source succeeded

	SendRate float64 // bytes/sec
	RecvRate float64
	RatesOK  bool
}
