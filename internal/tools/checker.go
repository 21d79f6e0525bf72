package tools

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

type Checker struct{}

func NewChecker() *Checker { return &Checker{} }

var versionRe = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

func (c *Checker) CheckAll() *AllToolsStatus {
	s := &AllToolsStatus{}
	var wg sync.WaitGroup
	var mu sync.Mutex

	goTools := GoTools()
	pythonTools := PythonTools()

	s.Go = make([]ToolStatus, len(goTools))
	s.Python = make([]ToolStatus, len(pythonTools))

	for i, t := range goTools {
		wg.Add(1)
		go func(idx int, tool Tool) {
			defer wg.Done()
			status := c.check(tool)
			mu.Lock()
			s.Go[idx] = status
			mu.Unlock()
		}(i, t)
	}

	for i, t := range pythonTools {
		wg.Add(1)
		go func(idx int, tool Tool) {
			defer wg.Done()
			status := c.check(tool)
			mu.Lock()
			s.Python[idx] = status
			mu.Unlock()
		}(i, t)
	}

	wg.Wait()
	return s
}

func (c *Checker) IsInstalled(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (c *Checker) GetMissingRequired() []string {
	var missing []string
	for _, t := range GoTools() {
		if t.Required && !c.IsInstalled(t.Binary) {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

func (c *Checker) check(t Tool) ToolStatus {
	installed := c.IsInstalled(t.Binary)
	s := ToolStatus{Name: t.Name, Installed: installed}
	if !installed {
		return s
	}
	s.Version = c.versionFast(t.Binary)
	if t.MinVersion != "" && s.Version != "" {
		s.Outdated = isOutdated(s.Version, t.MinVersion)
	}
	return s
}

// isOutdated compares a tool's reported version against the known-good minimum
func isOutdated(version, min string) bool {
	m := versionRe.FindStringSubmatch(version)
	if m == nil {
		return false
	}
	have, err := semver.NewVersion(m[1])
	if err != nil {
		return false
	}
	want, err := semver.NewVersion(min)
	if err != nil {
		return false
	}
	return have.LessThan(want)
}

// versionFast tries to get version quickly with a short timeout
func (c *Checker) versionFast(bin string) string {
	for _, flag := range []string{"--version", "-version"} {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		cmd := exec.CommandContext(ctx, bin, flag)
		out, err := cmd.CombinedOutput()
		cancel()
		if err == nil && len(out) > 0 {
			v := strings.TrimSpace(strings.Split(string(out), "\n")[0])
			if len(v) > 40 {
				return v[:40] + "..."
			}
			return v
		}
	}
	return ""
}
