// Package alert decides which metrics in a snapshot warrant a notification.
package alert

import (
	"fmt"

	"codeberg.org/mutker/hostwatch/internal/metrics"
)

type Kind string

const (
	KindCPU    Kind = "high_cpu"
	KindMemory Kind = "high_memory"
	KindSwap   Kind = "high_swap"
	KindDisk   Kind = "high_disk"
)

// Reason is one fired alert condition: the metric kind, the offending value
// and, for disk alerts, the mount that triggered it.
type Reason struct {
	Kind  Kind
	Mount string
	Value float64
}

func (r Reason) Title() string {
	switch r.Kind {
	case KindCPU:
		return "High CPU Usage Alert"
	case KindMemory:
		return "High RAM Usage Alert"
	case KindSwap:
		return "High Swap Usage Alert"
	case KindDisk:
		return fmt.Sprintf("High Disk Usage Alert for %s", r.Mount)
	}

	return "High Usage Alert"
}

// Evaluate compares a snapshot against the threshold (inclusive) and
// returns the fired reasons. It carries no state between calls.
//
// Disk evaluation stops at the first mount at or over the threshold, in the
// snapshot's sorted mount order: at most one disk reason per tick.
func Evaluate(snap metrics.Snapshot, threshold float64) []Reason {
	var reasons []Reason

	if snap.MemoryPercent >= threshold {
		reasons = append(reasons, Reason{Kind: KindMemory, Value: snap.MemoryPercent})
	}
	if snap.SwapPercent >= threshold {
		reasons = append(reasons, Reason{Kind: KindSwap, Value: snap.SwapPercent})
	}
	if snap.CPUPercent >= threshold {
		reasons = append(reasons, Reason{Kind: KindCPU, Value: snap.CPUPercent})
	}

	for _, mount := range snap.Mounts {
		if usage := snap.Disks[mount]; usage.Percent >= threshold {
			reasons = append(reasons, Reason{Kind: KindDisk, Mount: mount, Value: usage.Percent})
			break
		}
	}

	return reasons
}
