package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Prober runs httpx over the aggregated subdomain list and writes the
// status-annotated output file (`http://host [200]` per line).
type Prober struct {
	cfg *config.Config
}

func NewProber(cfg *config.Config) *Prober {
	return &Prober{cfg: cfg}
}

func (p *Prober) Probe(ctx context.Context, ws *workspace.Workspace) error {
	input := ws.Path(workspace.AllSubdomainsFile)
	if !ws.Exists(workspace.AllSubdomainsFile) {
		return fmt.Errorf("probe input %s does not exist", input)
	}

	args := []string{
		"-l", input,
		"-status-code",
		"-silent",
		"-no-color",
		"-o", ws.Path(workspace.ProbeFile),
	}
	if p.cfg.Threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", p.cfg.Threads))
	}
	if p.cfg.RateLimit > 0 {
		args = append(args, "-rate-limit", fmt.Sprintf("%d", p.cfg.RateLimit))
	}

	res := exec.RunWithContext(ctx, "httpx", args, &exec.Options{Timeout: 30 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("httpx exited: %w", res.Error)
	}
	return nil
}
