package runner

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// newTestRunner keeps runs hermetic: the wildcard pre-check talks to a
// closed local port instead of public resolvers, and the whois stage
// (a library call, not a stubbable binary) is skipped.
func newTestRunner(cfg *config.Config) *Runner {
	cfg.SkipWhois = true
	r := New(cfg)
	r.wildcard.Resolvers = []string{"127.0.0.1:1"}
	r.wildcard.Client.Timeout = time.Second
	return r
}

// stub installs a fake tool binary that writes fixed lines to the path
// given after -o and exits with the given code. Tools invoked without -o
// (version probes) write nothing.
func stub(t *testing.T, dir, name string, lines []string, exitCode int) {
	t.Helper()
	script := "#!/bin/sh\nout=\"\"\nprev=\"\"\nfor a in \"$@\"; do\n  if [ \"$prev\" = \"-o\" ]; then out=\"$a\"; fi\n  prev=\"$a\"\ndone\nif [ -n \"$out\" ]; then\n  : > \"$out\"\n"
	for _, l := range lines {
		script += fmt.Sprintf("  echo '%s' >> \"$out\"\n", l)
	}
	script += fmt.Sprintf("fi\nexit %d\n", exitCode)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
}

// stubStdout installs a fake tool that prints fixed lines to stdout
func stubStdout(t *testing.T, dir, name string, lines []string) {
	t.Helper()
	script := "#!/bin/sh\n"
	for _, l := range lines {
		script += fmt.Sprintf("echo '%s'\n", l)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
}

func readLines(t *testing.T, ws *workspace.Workspace, name string) []string {
	t.Helper()
	lines, err := ws.ReadLines(name)
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return lines
}

func TestPipelineEndToEnd(t *testing.T) {
	bin := t.TempDir()

	stub(t, bin, "sublist3r", []string{"a.example.com", "b.example.com"}, 0)
	stub(t, bin, "subfinder", []string{"b.example.com", "c.example.com"}, 0)
	// a failing tool must not halt the run
	stub(t, bin, "amass", nil, 1)
	stub(t, bin, "httpx", []string{
		"http://a.example.com [200]",
		"http://b.example.com [404]",
		"https://c.example.com [200]",
	}, 0)
	stub(t, bin, "subjack", []string{"[Not Vulnerable] a.example.com"}, 0)
	stub(t, bin, "nuclei", nil, 0)
	stubStdout(t, bin, "s3scanner", []string{
		"exists | c.example.com | us-east-1",
		"not_exist | a.example.com",
	})
	// shuffledns, aquatone, nmap are deliberately absent: their stages skip

	t.Setenv("PATH", bin)

	out := filepath.Join(t.TempDir(), "results")
	cfg := config.DefaultConfig()
	cfg.Domain = "example.com"
	cfg.OutputDir = out
	cfg.SkipTech = true

	if err := newTestRunner(cfg).Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	ws := workspace.New(out)

	wantSubs := []string{"a.example.com", "b.example.com", "c.example.com"}
	if got := readLines(t, ws, workspace.AllSubdomainsFile); !reflect.DeepEqual(got, wantSubs) {
		t.Errorf("all-subdomains = %v, want %v", got, wantSubs)
	}

	want200 := []string{"http://a.example.com", "https://c.example.com"}
	if got := readLines(t, ws, workspace.Hosts200File); !reflect.DeepEqual(got, want200) {
		t.Errorf("200-hosts = %v, want %v", got, want200)
	}

	want400 := []string{"http://b.example.com"}
	if got := readLines(t, ws, workspace.Hosts400File); !reflect.DeepEqual(got, want400) {
		t.Errorf("400-hosts = %v, want %v", got, want400)
	}

	wantHosts := []string{"a.example.com", "b.example.com", "c.example.com"}
	if got := readLines(t, ws, workspace.AllHostsFile); !reflect.DeepEqual(got, wantHosts) {
		t.Errorf("all-hosts = %v, want %v", got, wantHosts)
	}

	wantBuckets := []string{"exists | c.example.com | us-east-1"}
	if got := readLines(t, ws, workspace.BucketsFile); !reflect.DeepEqual(got, wantBuckets) {
		t.Errorf("buckets = %v, want %v", got, wantBuckets)
	}

	if !ws.Exists(workspace.TakeoverFile) {
		t.Error("takeover artifact missing")
	}
	if !ws.Exists(workspace.NucleiFile) {
		t.Error("nuclei artifact missing")
	}
	if !ws.Exists(workspace.HistoryDBName) {
		t.Error("scan history database missing")
	}
	// amass failed before writing, so its file must not exist and the
	// aggregate must still carry the other tools' findings
	if ws.Exists(workspace.AmassFile) {
		t.Error("failed amass stub should not leave an output file")
	}
}

func TestListFileTargets(t *testing.T) {
	bin := t.TempDir()
	stub(t, bin, "subfinder", []string{"x.example.org"}, 0)
	t.Setenv("PATH", bin)

	list := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(list, []byte("example.org\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "results")
	cfg := config.DefaultConfig()
	cfg.ListFile = list
	cfg.OutputDir = out
	cfg.SkipTech = true
	cfg.NoHistory = true

	if err := newTestRunner(cfg).Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	ws := workspace.New(out)
	want := []string{"x.example.org"}
	if got := readLines(t, ws, workspace.AllSubdomainsFile); !reflect.DeepEqual(got, want) {
		t.Errorf("all-subdomains = %v, want %v", got, want)
	}
}

func TestNoTargetsNoPriorOutputs(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	out := filepath.Join(t.TempDir(), "results")
	cfg := config.DefaultConfig()
	cfg.OutputDir = out
	cfg.SkipTech = true
	cfg.NoHistory = true

	// the aggregate stage fails (nothing to merge) but the run still
	// finishes without an error
	if err := newTestRunner(cfg).Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if workspace.New(out).Exists(workspace.AllSubdomainsFile) {
		t.Error("aggregate should not write without any enumeration output")
	}
}

func TestHistoryErrorsDoNotFailRun(t *testing.T) {
	bin := t.TempDir()
	stub(t, bin, "subfinder", []string{"a.example.com"}, 0)
	t.Setenv("PATH", bin)

	out := filepath.Join(t.TempDir(), "results")
	if err := os.MkdirAll(out, 0755); err != nil {
		t.Fatal(err)
	}

	// Seed a history database whose scans table is missing columns: the
	// schema bootstrap tolerates it (IF NOT EXISTS) but the insert and
	// the final timestamp update fail.
	db, err := sql.Open("sqlite", filepath.Join(out, "recon.db"))
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE scans (id TEXT)`,
		`CREATE TABLE stage_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			error TEXT
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	cfg := config.DefaultConfig()
	cfg.Domain = "example.com"
	cfg.OutputDir = out
	cfg.SkipTech = true

	if err := newTestRunner(cfg).Run(); err != nil {
		t.Fatalf("history failures must not fail the run: %v", err)
	}

	ws := workspace.New(out)
	want := []string{"a.example.com"}
	if got := readLines(t, ws, workspace.AllSubdomainsFile); !reflect.DeepEqual(got, want) {
		t.Errorf("all-subdomains = %v, want %v", got, want)
	}
}

func TestGetTargets(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Domain = "  example.com  "
	targets, err := New(cfg).getTargets()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(targets, []string{"example.com"}) {
		t.Fatalf("getTargets() = %v", targets)
	}

	cfg = config.DefaultConfig()
	cfg.ListFile = "/nonexistent/targets.txt"
	if _, err := New(cfg).getTargets(); err == nil {
		t.Fatal("missing list file should be an error")
	}
}
