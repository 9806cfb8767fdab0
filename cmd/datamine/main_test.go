package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datamine/internal/config"
	"github.com/JonMunkholm/datamine/internal/core"
	"github.com/JonMunkholm/datamine/internal/logging"
)

func TestLookup(t *testing.T) {
	for _, c := range commands {
		got, ok := lookup(c.name)
		if !ok || got.name != c.name {
			t.Errorf("lookup(%q) = %v, %v", c.name, got.name, ok)
		}
	}
	if _, ok := lookup("upload"); ok {
		t.Error("lookup(upload) should fail")
	}
}

func TestKVFlag(t *testing.T) {
	f := kvFlag{}
	for _, s := range []string{"page=2", "q=a=b", "empty="} {
		if err := f.Set(s); err != nil {
			t.Fatalf("Set(%q) error = %v", s, err)
		}
	}
	if f["page"] != "2" || f["q"] != "a=b" || f["empty"] != "" {
		t.Errorf("kvFlag = %v", map[string]string(f))
	}

	for _, bad := range []string{"novalue", "=x"} {
		if err := f.Set(bad); err == nil {
			t.Errorf("Set(%q) expected error", bad)
		}
	}
}

func testApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{
		Encoding: config.EncodingConfig{Candidates: []string{"utf-8", "cp949"}},
		Merge:    config.MergeConfig{Suffix: "_data"},
		Logging:  config.LoggingConfig{Level: "error", Format: "text"},
	}
	var logs bytes.Buffer
	logger, _ := logging.Setup(cfg.Logging, &logs)
	service, err := core.NewService(cfg, logger)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return &app{cfg: cfg, logger: logger, service: service}
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestRunMerge(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a_data.csv"), []byte("id,name\n1,kim\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "b_data.csv"), []byte("id,age\n2,30\n"), 0o644)
	out := captureStdout(t)

	err := runMerge(context.Background(), testApp(t), []string{"-dir", dir})
	if err != nil {
		t.Fatalf("runMerge() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "merged.csv"))
	if err != nil {
		t.Fatalf("merged.csv not written: %v", err)
	}
	if want := "id,name,age\n1,kim,0\n2,0,30\n"; string(data) != want {
		t.Errorf("merged.csv = %q, want %q", data, want)
	}
	if !strings.Contains(out.String(), `"rows": 2`) {
		t.Errorf("summary = %s", out.String())
	}
}

func TestRunRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	os.WriteFile(path, []byte("a,b\n1,x\n"), 0o644)
	out := captureStdout(t)

	if err := runRead(context.Background(), testApp(t), []string{path}); err != nil {
		t.Fatalf("runRead() error = %v", err)
	}
	if out.String() != "a,b\n1,x\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(context.Context, *app, []string) error
		args []string
	}{
		{"read without file", runRead, nil},
		{"read bad flag", runRead, []string{"-bogus", "x.csv"}},
		{"merge extra arg", runMerge, []string{"extra"}},
		{"sheet without workbook", runSheet, nil},
		{"fetch without url", runFetch, nil},
		{"export without table", runExport, []string{"-in", "x.csv"}},
		{"serve with args", runServe, []string{"now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(ctx, a, tt.args); err != errUsage {
				t.Errorf("error = %v, want errUsage", err)
			}
		})
	}
}
