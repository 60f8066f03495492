package metrics

import (
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

const osReleasePath = "/etc/os-release"

// Identity describes the host in notification headers. Resolved once at
// startup; the values do not change for the process lifetime.
type Identity struct {
	OS   string
	Arch string
}

func ResolveIdentity() Identity {
	id := Identity{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if info, err := host.Info(); err == nil {
		if info.Platform != "" {
			id.OS = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		}
		if info.KernelArch != "" {
			id.Arch = info.KernelArch
		}
	}

	// PRETTY_NAME gives the distribution's own description, which reads
	// better than platform + version.
	if pretty := osPrettyName(osReleasePath); pretty != "" {
		id.OS = pretty
	}

	return id
}

func osPrettyName(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(raw), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found || key != "PRETTY_NAME" {
			continue
		}

		return strings.Trim(value, `"`)
	}

	return ""
}
