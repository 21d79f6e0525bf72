package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fixed artifact names inside the workspace directory. Each file is created
// by exactly one stage and never mutated in place.
const (
	Sublist3rFile     = "sublist3r.txt"
	SubfinderFile     = "subfinder.txt"
	ShufflednsFile    = "shuffledns.txt"
	AmassFile         = "amass.txt"
	AllSubdomainsFile = "all-subdomains.txt"
	ProbeFile         = "httpx-status.txt"
	Hosts200File      = "200-hosts.txt"
	Hosts400File      = "400-hosts.txt"
	AllHostsFile      = "all-hosts.txt"
	TakeoverFile      = "takeover.txt"
	BucketsFile       = "buckets.txt"
	NucleiFile        = "nuclei.txt"
	WhoisFile         = "whois.txt"
	PortsFile         = "ports.txt"
	TechFile          = "technologies.txt"
	ClustersFile      = "screenshot-clusters.txt"
	ScreenshotDirName = "screenshots"
	HistoryDBName     = "recon.db"
)

// Workspace is the explicit handle to the output directory that every stage
// receives instead of a shared ambient path.
type Workspace struct {
	dir string
}

func New(dir string) *Workspace {
	return &Workspace{dir: dir}
}

// Dir returns the workspace root
func (w *Workspace) Dir() string { return w.dir }

// Init creates the workspace directory if needed. It reports whether the
// directory was created by this call.
func (w *Workspace) Init() (bool, error) {
	if fi, err := os.Stat(w.dir); err == nil {
		if !fi.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", w.dir)
		}
		return false, nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create workspace %s: %w", w.dir, err)
	}
	return true, nil
}

// Path joins a fixed artifact name onto the workspace root
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// EnumFiles returns the four per-tool enumeration output paths
func (w *Workspace) EnumFiles() []string {
	return []string{
		w.Path(Sublist3rFile),
		w.Path(SubfinderFile),
		w.Path(ShufflednsFile),
		w.Path(AmassFile),
	}
}

// ScreenshotDir returns the aquatone output directory, creating it on demand
func (w *Workspace) ScreenshotDir() (string, error) {
	dir := w.Path(ScreenshotDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	return dir, nil
}

// Exists reports whether a workspace artifact is present
func (w *Workspace) Exists(name string) bool {
	_, err := os.Stat(w.Path(name))
	return err == nil
}

// WriteLines writes newline-delimited lines to a workspace artifact
func (w *Workspace) WriteLines(name string, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(w.Path(name), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ReadLines reads a workspace artifact as trimmed, non-empty lines
func (w *Workspace) ReadLines(name string) ([]string, error) {
	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}
