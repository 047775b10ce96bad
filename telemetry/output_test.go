package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/steer/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// nil manager is a no-op
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 600), Agents: 10}); err != nil {
			t.Fatal(err)
		}
	}
	perf := PerfStats{AvgTickDuration: time.Millisecond, PhasePct: map[string]float64{PhaseSteering: 80}}
	if err := om.WritePerf(perf, 600, 10); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkFlockFormed, Tick: 600}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	tests := []struct {
		file   string
		header string
		lines  int
	}{
		{"telemetry.csv", "window_end,sim_time,agents,", 4},
		{"perf.csv", "window_end,agents,avg_tick_us,", 2},
		{"bookmarks.csv", "type,tick,description", 2},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != tt.lines {
				t.Errorf("%d lines, want %d", len(lines), tt.lines)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("header = %q, want prefix %q", lines[0], tt.header)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}
