package enum

import (
	"context"
	"fmt"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/pipeline"
	"github.com/alishwani-112/auto-subdomain/internal/tools"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Runner invokes the four external enumeration tools for one target domain.
// Every tool writes to its own fixed file inside the workspace, so the four
// invocations are independent and run as one concurrent pipeline group.
type Runner struct {
	cfg *config.Config
	c   *tools.Checker
}

func NewRunner(cfg *config.Config, checker *tools.Checker) *Runner {
	return &Runner{cfg: cfg, c: checker}
}

// Stages returns the enumeration stages for a domain. Exit codes are
// captured and reported but never halt the pipeline; a failing tool leaves
// its file empty or partial and aggregation proceeds with what exists.
func (r *Runner) Stages(ws *workspace.Workspace, domain string) []pipeline.Stage {
	stages := []pipeline.Stage{
		{
			Name:    "sublist3r",
			Outputs: []string{workspace.Sublist3rFile},
			Skip:    !r.c.IsInstalled("sublist3r"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				return r.sublist3r(ctx, domain, ws.Path(workspace.Sublist3rFile))
			},
		},
		{
			Name:    "subfinder",
			Outputs: []string{workspace.SubfinderFile},
			Skip:    !r.c.IsInstalled("subfinder"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				return r.subfinder(ctx, domain, ws.Path(workspace.SubfinderFile))
			},
		},
		{
			Name:    "shuffledns",
			Outputs: []string{workspace.ShufflednsFile},
			Run: func(ctx context.Context) error {
				return r.shuffledns(ctx, domain, ws.Path(workspace.ShufflednsFile))
			},
		},
		{
			Name:    "amass",
			Outputs: []string{workspace.AmassFile},
			Skip:    !r.c.IsInstalled("amass"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				return r.amass(ctx, domain, ws.Path(workspace.AmassFile))
			},
		},
	}

	// shuffledns needs both a wordlist and resolvers to bruteforce
	if !r.c.IsInstalled("shuffledns") {
		stages[2].Skip = true
		stages[2].Reason = "not installed"
	} else if r.cfg.Wordlist == "" || r.cfg.Resolvers == "" {
		stages[2].Skip = true
		stages[2].Reason = "no wordlist/resolvers configured"
	}

	return stages
}

func (r *Runner) sublist3r(ctx context.Context, domain, out string) error {
	args := []string{"-d", domain, "-o", out}
	res := exec.RunWithContext(ctx, "sublist3r", args, &exec.Options{Timeout: 15 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("sublist3r exited: %w", res.Error)
	}
	return nil
}

func (r *Runner) subfinder(ctx context.Context, domain, out string) error {
	args := []string{"-d", domain, "-all", "-silent", "-o", out}
	if r.cfg.Threads > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", r.cfg.Threads))
	}
	res := exec.RunWithContext(ctx, "subfinder", args, &exec.Options{Timeout: 10 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("subfinder exited: %w", res.Error)
	}
	return nil
}

func (r *Runner) shuffledns(ctx context.Context, domain, out string) error {
	args := []string{
		"-d", domain,
		"-w", r.cfg.Wordlist,
		"-r", r.cfg.Resolvers,
		"-mode", "bruteforce",
		"-silent",
		"-o", out,
	}
	if r.cfg.Threads > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", r.cfg.Threads))
	}
	res := exec.RunWithContext(ctx, "shuffledns", args, &exec.Options{Timeout: 30 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("shuffledns exited: %w", res.Error)
	}
	return nil
}

func (r *Runner) amass(ctx context.Context, domain, out string) error {
	args := []string{"enum", "-d", domain, "-timeout", "30", "-o", out}
	res := exec.RunWithContext(ctx, "amass", args, &exec.Options{Timeout: 35 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("amass exited: %w", res.Error)
	}
	return nil
}
