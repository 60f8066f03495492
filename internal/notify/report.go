package notify

import (
	"fmt"
	"strings"

	"codeberg.org/mutker/hostwatch/internal/metrics"
)

const (
	bytesPerKB = 1024.0
	bytesPerGB = 1024.0 * 1024.0 * 1024.0

	timeLayout  = "2006-01-02 15:04:05"
	unavailable = "N/A"
)

// renderReport produces the fixed HTML-subset message body. Only <b> tags
// are used; everything else is plain text the backend renders verbatim.
func renderReport(title, serverName string, id metrics.Identity, snap metrics.Snapshot, severity Severity) string {
	icon := "ℹ"
	if severity == SeverityAlert {
		icon = "⚠"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b>\n\n", icon, title)
	fmt.Fprintf(&b, "🖥 Server: <b>%s</b>\n", serverName)
	fmt.Fprintf(&b, "💻 OS: %s\n", id.OS)
	fmt.Fprintf(&b, "🔧 Architecture: %s\n", id.Arch)
	fmt.Fprintf(&b, "🕒 Time: %s\n\n", snap.Timestamp.Format(timeLayout))

	b.WriteString("📊 System Metrics:\n")
	fmt.Fprintf(&b, "CPU Usage: %.1f%%\n", snap.CPUPercent)
	fmt.Fprintf(&b, "CPU Frequency: %s\n", frequency(snap.CPUFrequencyGHz))
	fmt.Fprintf(&b, "CPU Temperature: %s\n", orUnavailable(snap.CPUTemperature))
	fmt.Fprintf(&b, "RAM Used: %s/%s (%.1f%%)\n", gigabytes(snap.MemoryUsed), gigabytes(snap.MemoryTotal), snap.MemoryPercent)
	fmt.Fprintf(&b, "Swap Used: %s (%.1f%%)\n", gigabytes(snap.SwapUsed), snap.SwapPercent)
	fmt.Fprintf(&b, "Network: %s\n\n", networkSpeed(snap))

	b.WriteString("Storage Usage:\n")
	blocks := make([]string, 0, len(snap.Mounts))
	for _, mount := range snap.Mounts {
		usage := snap.Disks[mount]
		blocks = append(blocks, fmt.Sprintf("💽 %s:\n   Used: %s/%s (%.1f%%)\n   Free: %s",
			mount, gigabytes(usage.Used), gigabytes(usage.Total), usage.Percent, gigabytes(usage.Free)))
	}
	b.WriteString(strings.Join(blocks, "\n"))

	return b.String()
}

func frequency(ghz float64) string {
	if ghz <= 0 {
		return unavailable
	}

	return fmt.Sprintf("%.2fGHz", ghz)
}

func networkSpeed(snap metrics.Snapshot) string {
	if !snap.RatesOK {
		return unavailable
	}

	return fmt.Sprintf("↑ %.2f KB/s | ↓ %.2f KB/s", snap.SendRate/bytesPerKB, snap.RecvRate/bytesPerKB)
}

func gigabytes(bytes uint64) string {
	return fmt.Sprintf("%.2fGB", float64(bytes)/bytesPerGB)
}

func orUnavailable(value string) string {
	if value == "" {
		return unavailable
	}

	return value
}
