package workers

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	t.Setenv(OverrideEnv, "")

	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{name: "CPU-bound task", multiplier: 1.0, limit: 0, want: availableCPU},
		{name: "I/O-bound task", multiplier: 2.0, limit: 0, want: availableCPU * 2},
		{name: "limit caps result", multiplier: 100.0, limit: 2, want: 2},
		{name: "zero multiplier floors at one", multiplier: 0.0, limit: 0, want: 1},
		{name: "negative multiplier floors at one", multiplier: -1.0, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.multiplier, tt.limit))
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	fallback := runtime.GOMAXPROCS(0)

	tests := []struct {
		name     string
		envValue string
		limit    int
		want     int
	}{
		{name: "valid override", envValue: "8", limit: 0, want: 8},
		{name: "override capped by limit", envValue: "20", limit: 10, want: 10},
		{name: "override below limit", envValue: "5", limit: 10, want: 5},
		{name: "non-numeric falls back", envValue: "invalid", limit: 0, want: fallback},
		{name: "zero falls back", envValue: "0", limit: 0, want: fallback},
		{name: "negative falls back", envValue: "-5", limit: 0, want: fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(OverrideEnv, tt.envValue)
			assert.Equal(t, tt.want, Count(1.0, tt.limit))
		})
	}
}

func TestOverride(t *testing.T) {
	t.Setenv(OverrideEnv, "")
	_, ok := Override()
	assert.False(t, ok)

	t.Setenv(OverrideEnv, "3")
	count, ok := Override()
	assert.True(t, ok)
	assert.Equal(t, 3, count)
}

func TestForIO(t *testing.T) {
	t.Setenv(OverrideEnv, "")

	assert.Equal(t, 1, ForIO(1))
	assert.Equal(t, min(runtime.GOMAXPROCS(0)*2, 8), ForIO(8))
	assert.GreaterOrEqual(t, ForIO(0), 2)
}

func BenchmarkCount(b *testing.B) {
	b.Setenv(OverrideEnv, "")
	for i := 0; i < b.N; i++ {
		_ = Count(1.5, 10)
	}
}
