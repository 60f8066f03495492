package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/hostwatch/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	name  string
	value string
	ok    bool
	calls int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Read() (string, bool) {
	s.calls++
	return s.value, s.ok
}

func TestResolverReturnsFirstSuccess(t *testing.T) {
	first := &countingSource{name: "first", value: "45.0°C", ok: true}
	second := &countingSource{name: "second", value: "99.0°C", ok: true}

	resolver := metrics.NewResolver(first, second)

	value, ok := resolver.Resolve()
	require.True(t, ok)
	assert.Equal(t, "45.0°C", value)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later sources must not be invoked after a success")
}

func TestResolverFallsThroughFailures(t *testing.T) {
	first := &countingSource{name: "first"}
	second := &countingSource{name: "second"}
	third := &countingSource{name: "third", value: "51.5°C", ok: true}

	resolver := metrics.NewResolver(first, second, third)

	value, ok := resolver.Resolve()
	require.True(t, ok)
	assert.Equal(t, "51.5°C", value)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestResolverAllSourcesFail(t *testing.T) {
	first := &countingSource{name: "first"}
	second := &countingSource{name: "second"}

	resolver := metrics.NewResolver(first, second)

	_, ok := resolver.Resolve()
	assert.False(t, ok)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestThermalZoneParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("48250\n"), 0o600))

	resolver := metrics.NewResolver(metrics.NewThermalZoneSource(path))

	value, ok := resolver.Resolve()
	require.True(t, ok)
	assert.Equal(t, "48.2°C", value)
}

func TestThermalZoneParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("not a number"), 0o600))

	resolver := metrics.NewResolver(metrics.NewThermalZoneSource(path))

	_, ok := resolver.Resolve()
	assert.False(t, ok, "parse error must fall through, not fail")
}
