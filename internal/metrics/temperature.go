package metrics

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/mutker/hostwatch/internal/logger"
	"github.com/shirou/gopsutil/v4/sensors"
)

const (
	thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"
	vcgencmdPath    = "/opt/vc/bin/vcgencmd"
	milliDegrees    = 1000.0
)

// cpuSensorKeywords identify CPU-related entries in the sensor list.
var cpuSensorKeywords = []string{"core", "cpu", "package"}

// Source is one way of reading the CPU temperature. Read returns the
// formatted value and whether the source produced one.
type Source interface {
	Name() string
	Read() (string, bool)
}

// Resolver tries sources in priority order and returns the first success.
// The order matters: earlier sources are more precise, and the CLI
// fallbacks can report unrelated sensors on unsupported hardware.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	if len(sources) == 0 {
		sources = []Source{
			&sensorAPISource{read: sensors.SensorsTemperatures},
			&thermalZoneSource{path: thermalZonePath},
			&vcgencmdSource{binary: vcgencmdPath},
			&sensorsCLISource{},
		}
	}

	return &Resolver{sources: sources}
}

func (r *Resolver) Resolve() (string, bool) {
	for _, src := range r.sources {
		if value, ok := src.Read(); ok {
			return value, true
		}
		logger.Debug().Str("source", src.Name()).Msg("temperature source unavailable")
	}

	return "", false
}

// sensorAPISource reads the structured sensor API and picks the first entry
// whose label looks CPU-related.
type sensorAPISource struct {
	read func() ([]sensors.TemperatureStat, error)
}

func (*sensorAPISource) Name() string { return "sensors_api" }

func (s *sensorAPISource) Read() (string, bool) {
	stats, err := s.read()
	if err != nil {
		return "", false
	}

	for _, stat := range stats {
		key := strings.ToLower(stat.SensorKey)
		for _, keyword := range cpuSensorKeywords {
			if strings.Contains(key, keyword) {
				return formatCelsius(stat.Temperature), true
			}
		}
	}

	return "", false
}

// thermalZoneSource parses the kernel thermal-zone pseudo-file, which holds
// millidegrees Celsius.
type thermalZoneSource struct {
	path string
}

// NewThermalZoneSource reads millidegrees from a thermal-zone pseudo-file.
func NewThermalZoneSource(path string) Source {
	return &thermalZoneSource{path: path}
}

func (*thermalZoneSource) Name() string { return "thermal_zone" }

func (s *thermalZoneSource) Read() (string, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return "", false
	}

	return formatCelsius(float64(milli) / milliDegrees), true
}

// vcgencmdSource shells out to the Raspberry Pi firmware tool, which prints
// lines like "temp=48.3'C".
type vcgencmdSource struct {
	binary string
}

func (*vcgencmdSource) Name() string { return "vcgencmd" }

func (s *vcgencmdSource) Read() (string, bool) {
	if _, err := os.Stat(s.binary); err != nil {
		return "", false
	}

	out, err := exec.Command(s.binary, "measure_temp").Output()
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(strings.TrimPrefix(string(out), "temp="))
	if value == "" {
		return "", false
	}

	return value, true
}

// sensorsCLISource scans lm-sensors output for the "Core 0" line and takes
// the value between "+" and the degree symbol.
type sensorsCLISource struct{}

func (*sensorsCLISource) Name() string { return "sensors_cli" }

func (*sensorsCLISource) Read() (string, bool) {
	out, err := exec.Command("sensors").Output()
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "Core 0") {
			continue
		}

		_, after, found := strings.Cut(line, "+")
		if !found {
			continue
		}
		value, _, found := strings.Cut(after, "°")
		if !found {
			continue
		}

		return strings.TrimSpace(value) + "°C", true
	}

	return "", false
}

func formatCelsius(value float64) string {
	return fmt.Sprintf("%.1f°C", value)
}
