package takeover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Checker runs subjack over the full discovered subdomain list. Dangling
// records often do not answer HTTP, so the input is the pre-probe list, not
// the live host views.
type Checker struct {
	cfg *config.Config
}

func NewChecker(cfg *config.Config) *Checker {
	return &Checker{cfg: cfg}
}

func (c *Checker) Check(ctx context.Context, ws *workspace.Workspace) error {
	input := ws.Path(workspace.AllSubdomainsFile)
	if !ws.Exists(workspace.AllSubdomainsFile) {
		return fmt.Errorf("takeover input %s does not exist", input)
	}

	args := []string{
		"-w", input,
		"-timeout", "30",
		"-ssl",
		"-v",
		"-o", ws.Path(workspace.TakeoverFile),
	}
	if c.cfg.Threads > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", c.cfg.Threads))
	}

	res := exec.RunWithContext(ctx, "subjack", args, &exec.Options{Timeout: 15 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("subjack exited: %w", res.Error)
	}
	return nil
}

// CountVulnerable counts report lines that flag a takeover candidate
func CountVulnerable(lines []string) int {
	n := 0
	for _, l := range lines {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "not vulnerable") {
			continue
		}
		if strings.Contains(lower, "vulnerable") || strings.Contains(lower, "takeover") {
			n++
		}
	}
	return n
}
