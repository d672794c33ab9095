package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/reelorder/internal/config"
)

type mockLogger struct {
	lines  []string
	errors int
}

func (m *mockLogger) Info(f string, a ...any)    { m.lines = append(m.lines, fmt.Sprintf(f, a...)) }
func (m *mockLogger) Success(f string, a ...any) { m.lines = append(m.lines, fmt.Sprintf(f, a...)) }
func (m *mockLogger) Warn(f string, a ...any)    { m.lines = append(m.lines, fmt.Sprintf(f, a...)) }
func (m *mockLogger) Debug(f string, a ...any)   { m.lines = append(m.lines, fmt.Sprintf(f, a...)) }
func (m *mockLogger) Error(f string, a ...any) {
	m.errors++
	m.lines = append(m.lines, fmt.Sprintf(f, a...))
}

func TestPreflight(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mkv")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
		want error
	}{
		{"ok", dir, nil},
		{"missing", filepath.Join(dir, "nope"), ErrRootNotFound},
		{"file", file, ErrRootNotDir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.RootDir = tt.root
			err := Preflight(&cfg)
			if tt.want == nil && err != nil {
				t.Fatalf("Preflight() = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Preflight() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPreflight_LeavesNoProbeFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	if err := Preflight(&cfg); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Saga"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Saga", "Storyline.txt"), []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = dir
	cfg.MetricsFile = filepath.Join(dir, "reelorder.prom")
	cfg.Schedule = "0 3 * * *"
	log := &mockLogger{}

	if n := RunCheck(&cfg, log); n != 0 {
		t.Errorf("RunCheck problems = %d, lines: %v", n, log.lines)
	}

	cfg.RootDir = filepath.Join(dir, "missing")
	cfg.Schedule = "bogus"
	cfg.MetricsFile = filepath.Join(dir, "no", "such", "x.prom")
	log = &mockLogger{}
	if n := RunCheck(&cfg, log); n != 3 {
		t.Errorf("RunCheck problems = %d, want 3; lines: %v", n, log.lines)
	}
	if log.errors != 3 {
		t.Errorf("errors logged = %d, want 3", log.errors)
	}
}
