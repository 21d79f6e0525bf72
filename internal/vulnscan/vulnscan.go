package vulnscan

import (
	"context"
	"fmt"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Scanner runs nuclei over the responding 2xx hosts with a severity filter
type Scanner struct {
	cfg *config.Config
}

func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

func (s *Scanner) Scan(ctx context.Context, ws *workspace.Workspace) error {
	input := ws.Path(workspace.Hosts200File)
	if !ws.Exists(workspace.Hosts200File) {
		return fmt.Errorf("vulnerability scan input %s does not exist", input)
	}

	args := []string{
		"-l", input,
		"-severity", s.cfg.Severity,
		"-silent",
		"-no-color",
		"-o", ws.Path(workspace.NucleiFile),
	}
	if s.cfg.Threads > 0 {
		args = append(args, "-c", fmt.Sprintf("%d", s.cfg.Threads))
	}
	if s.cfg.RateLimit > 0 {
		args = append(args, "-rl", fmt.Sprintf("%d", s.cfg.RateLimit))
	}

	res := exec.RunWithContext(ctx, "nuclei", args, &exec.Options{Timeout: 60 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("nuclei exited: %w", res.Error)
	}
	return nil
}
