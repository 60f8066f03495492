package metrics

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codeberg.org/mutker/hostwatch/internal/logger"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

const (
	// cpuWindow is the blocking measurement window for the CPU percentage.
	cpuWindow = time.Second

	mhzPerGhz = 1000.0
)

// SystemProvider reads host metrics through gopsutil.
type SystemProvider struct {
	excludeMount string
}

func NewSystemProvider(excludeMount string) *SystemProvider {
	return &SystemProvider{excludeMount: excludeMount}
}

// Sample collects one raw reading. Each metric degrades independently; a
// single unreadable counter must never abort the tick.
func (p *SystemProvider) Sample(ctx context.Context) Sample {
	s := Sample{Timestamp: time.Now()}

	if percents, err := cpu.PercentWithContext(ctx, cpuWindow, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	} else {
		logger.Warn().Err(err).Msg("cpu percent unavailable")
	}

	if info, err := cpu.InfoWithContext(ctx); err == nil && len(info) > 0 && info[0].Mhz > 0 {
		s.CPUFrequencyGHz = info[0].Mhz / mhzPerGhz
	} else {
		logger.Debug().Msg("cpu frequency unavailable")
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemoryTotal = vm.Total
		s.MemoryUsed = vm.Used
		s.MemoryPercent = vm.UsedPercent
	} else {
		logger.Warn().Err(err).Msg("virtual memory unavailable")
	}

	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		s.SwapTotal = swap.Total
		s.SwapUsed = swap.Used
		s.SwapPercent = swap.UsedPercent
	} else {
		logger.Warn().Err(err).Msg("swap memory unavailable")
	}

	if counters, err := net.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		s.Net = Counters{BytesSent: counters[0].BytesSent, BytesRecv: counters[0].BytesRecv}
		s.NetOK = true
	} else {
		logger.Warn().Err(err).Msg("network counters unavailable")
	}

	s.Disks, s.Mounts = p.diskUsage(ctx)

	return s
}

// diskUsage enumerates mounted filesystems, skipping mounts matching the
// exclusion substring (snap squashfs mounts by default, which duplicate the
// root device and churn on refresh).
func (p *SystemProvider) diskUsage(ctx context.Context) (map[string]DiskUsage, []string) {
	disks := make(map[string]DiskUsage)

	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		logger.Warn().Err(err).Msg("disk partitions unavailable")
		return disks, nil
	}

	for _, part := range partitions {
		if p.excluded(part.Mountpoint) {
			continue
		}
		if _, seen := disks[part.Mountpoint]; seen {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			logger.Debug().Err(err).Str("mount", part.Mountpoint).Msg("disk usage unavailable")
			continue
		}

		disks[part.Mountpoint] = DiskUsage{
			Percent: usage.UsedPercent,
			Total:   usage.Total,
			Used:    usage.Used,
			Free:    usage.Free,
		}
	}

	mounts := make([]string, 0, len(disks))
	for mount := range disks {
		mounts = append(mounts, mount)
	}
	sort.Strings(mounts)

	return disks, mounts
}

func (p *SystemProvider) excluded(mount string) bool {
	if p.excludeMount == "" {
		return false
	}
	if strings.Contains(mount, p.excludeMount) {
		return true
	}

	// Symlinked mounts can hide the excluded prefix behind another path.
	if resolved, err := filepath.EvalSymlinks(mount); err == nil {
		return strings.Contains(resolved, p.excludeMount)
	}

	return false
}
