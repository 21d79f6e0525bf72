package enum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/tools"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

func fakeBin(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func stageByName(t *testing.T, r *Runner, ws *workspace.Workspace, name string) (skip bool, reason string) {
	t.Helper()
	for _, s := range r.Stages(ws, "example.com") {
		if s.Name == name {
			return s.Skip, s.Reason
		}
	}
	t.Fatalf("stage %s not found", name)
	return false, ""
}

func TestStagesSkipMissingTools(t *testing.T) {
	bin := t.TempDir()
	fakeBin(t, bin, "subfinder")
	t.Setenv("PATH", bin)

	r := NewRunner(config.DefaultConfig(), tools.NewChecker())
	ws := workspace.New(t.TempDir())

	if skip, _ := stageByName(t, r, ws, "subfinder"); skip {
		t.Error("subfinder installed but stage is skipped")
	}
	if skip, reason := stageByName(t, r, ws, "sublist3r"); !skip || reason != "not installed" {
		t.Errorf("sublist3r skip = %v (%q), want skipped as not installed", skip, reason)
	}
	if skip, reason := stageByName(t, r, ws, "amass"); !skip || reason != "not installed" {
		t.Errorf("amass skip = %v (%q), want skipped as not installed", skip, reason)
	}
}

func TestShufflednsNeedsWordlistAndResolvers(t *testing.T) {
	bin := t.TempDir()
	fakeBin(t, bin, "shuffledns")
	t.Setenv("PATH", bin)

	ws := workspace.New(t.TempDir())

	cfg := config.DefaultConfig()
	r := NewRunner(cfg, tools.NewChecker())
	if skip, reason := stageByName(t, r, ws, "shuffledns"); !skip || reason != "no wordlist/resolvers configured" {
		t.Errorf("skip = %v (%q), want skipped for missing wordlist/resolvers", skip, reason)
	}

	cfg.Wordlist = "/opt/wordlists/dns.txt"
	cfg.Resolvers = "/opt/resolvers.txt"
	if skip, _ := stageByName(t, r, ws, "shuffledns"); skip {
		t.Error("shuffledns fully configured but stage is skipped")
	}
}

func TestShufflednsSkippedWhenNotInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	cfg := config.DefaultConfig()
	cfg.Wordlist = "/opt/wordlists/dns.txt"
	cfg.Resolvers = "/opt/resolvers.txt"

	r := NewRunner(cfg, tools.NewChecker())
	ws := workspace.New(t.TempDir())
	if skip, reason := stageByName(t, r, ws, "shuffledns"); !skip || reason != "not installed" {
		t.Errorf("skip = %v (%q), want skipped as not installed", skip, reason)
	}
}
