package screenshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Capturer streams the host list into aquatone, which probes the candidate
// web ports and writes screenshots under the workspace subdirectory.
type Capturer struct {
	cfg *config.Config
}

func NewCapturer(cfg *config.Config) *Capturer {
	return &Capturer{cfg: cfg}
}

func (c *Capturer) Capture(ctx context.Context, ws *workspace.Workspace) error {
	hosts, err := ws.ReadLines(workspace.AllHostsFile)
	if err != nil {
		return fmt.Errorf("screenshot input: %w", err)
	}
	if len(hosts) == 0 {
		return nil
	}

	dir, err := ws.ScreenshotDir()
	if err != nil {
		return err
	}

	args := []string{
		"-ports", c.cfg.ScreenshotPorts,
		"-out", dir,
		"-scan-timeout", "500",
	}
	if c.cfg.Threads > 0 {
		args = append(args, "-threads", fmt.Sprintf("%d", c.cfg.Threads))
	}

	res := exec.Run("aquatone", args, &exec.Options{
		Ctx:     ctx,
		Stdin:   strings.NewReader(strings.Join(hosts, "\n") + "\n"),
		Timeout: 30 * time.Minute,
	})
	if res.Error != nil {
		return fmt.Errorf("aquatone exited: %w", res.Error)
	}
	return nil
}
