package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eykd/sldview/internal/config"
)

func TestNewInitCmd_HasRequiredFlags(t *testing.T) {
	c := NewInitCmd(nil)
	for _, name := range []string{"project", "force"} {
		t.Run(name, func(t *testing.T) {
			if c.Flags().Lookup(name) == nil {
				t.Errorf("expected --%s flag on init command", name)
			}
		})
	}
}

func TestNewInitCmd_DefaultsToCWD(t *testing.T) {
	mock := newMockFileIO()
	c := newInitCmdWithGetCWD(mock, func() (string, error) { return "/work", nil })

	if _, _, err := run(c); err != nil {
		t.Fatalf("expected success with no --project (CWD default): %v", err)
	}
	if _, ok := mock.written[filepath.Join("/work", config.FileName)]; !ok {
		t.Errorf("expected config written in CWD, got %v", keys(mock.written))
	}
}

func TestNewInitCmd_GetCWDError(t *testing.T) {
	c := newInitCmdWithGetCWD(newMockFileIO(), func() (string, error) {
		return "", errors.New("getwd failed")
	})
	if _, _, err := run(c); err == nil {
		t.Error("expected error when getwd fails")
	}
}

func TestNewInitCmd_WritesParseableDefaults(t *testing.T) {
	mock := newMockFileIO()
	stdout, _, err := run(NewInitCmd(mock), "--project", "/p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Initialized /p") {
		t.Errorf("stdout = %q, want Initialized message", stdout)
	}

	data := mock.written[filepath.Join("/p", config.FileName)]
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("written config does not parse: %v\n%s", err, data)
	}
	if cfg.Overrides.DefaultMode != config.Default().Overrides.DefaultMode {
		t.Errorf("default mode = %q, want %q", cfg.Overrides.DefaultMode, config.Default().Overrides.DefaultMode)
	}
}

func TestNewInitCmd_Scenarios(t *testing.T) {
	path := filepath.Join("/p", config.FileName)
	tests := []struct {
		name          string
		exists        bool
		statErr       error
		writeErr      error
		force         bool
		wantErr       bool
		wantWritten   bool
		wantStderrHas string
	}{
		{name: "fresh project", wantWritten: true},
		{name: "existing config without force", exists: true, wantErr: true},
		{name: "existing config with force", exists: true, force: true, wantWritten: true, wantStderrHas: "overwriting"},
		{name: "stat error", statErr: errors.New("permission denied"), wantErr: true},
		{name: "write error", writeErr: errors.New("disk full"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockFileIO()
			if tt.exists {
				mock.with(path, "log:\n  level: debug\n")
			}
			mock.statErr = tt.statErr
			mock.writeErr = tt.writeErr

			args := []string{"--project", "/p"}
			if tt.force {
				args = append(args, "--force")
			}
			_, stderr, err := run(NewInitCmd(mock), args...)

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if _, ok := mock.written[path]; ok != tt.wantWritten {
				t.Errorf("written = %v, want %v", ok, tt.wantWritten)
			}
			if tt.wantStderrHas != "" && !strings.Contains(stderr, tt.wantStderrHas) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantStderrHas)
			}
		})
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
