package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/alishwani-112/auto-subdomain/internal/aggregate"
	"github.com/alishwani-112/auto-subdomain/internal/buckets"
	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/debug"
	"github.com/alishwani-112/auto-subdomain/internal/domaininfo"
	"github.com/alishwani-112/auto-subdomain/internal/enum"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/pipeline"
	"github.com/alishwani-112/auto-subdomain/internal/portscan"
	"github.com/alishwani-112/auto-subdomain/internal/probe"
	"github.com/alishwani-112/auto-subdomain/internal/screenshot"
	"github.com/alishwani-112/auto-subdomain/internal/storage"
	"github.com/alishwani-112/auto-subdomain/internal/takeover"
	"github.com/alishwani-112/auto-subdomain/internal/techdetect"
	"github.com/alishwani-112/auto-subdomain/internal/tools"
	"github.com/alishwani-112/auto-subdomain/internal/version"
	"github.com/alishwani-112/auto-subdomain/internal/vulnscan"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Runner drives the fixed pipeline: enumeration, aggregation, probing,
// splitting, post-processing, screenshots. Stage groups run sequentially;
// stages inside the enumeration and post-processing groups run concurrently
// behind a join barrier since each owns its output files.
type Runner struct {
	cfg      *config.Config
	c        *tools.Checker
	wildcard *enum.WildcardChecker
}

func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg:      cfg,
		c:        tools.NewChecker(),
		wildcard: enum.NewWildcardChecker(),
	}
}

func (r *Runner) Run() error {
	return r.RunWithContext(context.Background())
}

func (r *Runner) RunWithContext(ctx context.Context) error {
	start := time.Now()
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	if missing := r.c.GetMissingRequired(); len(missing) > 0 {
		yellow.Printf("[!] Missing tools: %s (their stages will be skipped)\n", strings.Join(missing, ", "))
	}

	targets, err := r.getTargets()
	if err != nil {
		return err
	}

	ws := workspace.New(r.cfg.OutputDir)
	created, err := ws.Init()
	switch {
	case err != nil:
		// Not a hard stop: every file-writing stage will report the
		// failure on its own.
		yellow.Printf("[!] Workspace: %v\n", err)
	case created:
		fmt.Printf("[*] Created workspace %s\n", ws.Dir())
	default:
		fmt.Printf("[*] Workspace %s already exists\n", ws.Dir())
	}

	var history *storage.History
	scanID := storage.GenerateScanID()
	if !r.cfg.NoHistory {
		history, err = storage.Open(ws.Path(workspace.HistoryDBName))
		if err != nil {
			yellow.Printf("[!] Scan history disabled: %v\n", err)
			history = nil
		} else {
			defer history.Close()
			if err := history.CreateScan(scanID, strings.Join(targets, ","), version.Version, start); err != nil {
				yellow.Printf("[!] Scan history: %v\n", err)
			}
		}
	}

	executor := pipeline.NewExecutor()

	// Stage group 1: enumeration, per target, four tools in parallel.
	// The union is collected here because each tool reuses its fixed
	// filename across targets.
	union := make(map[string]bool)
	enumerated := false
	if len(targets) == 0 {
		yellow.Println("[!] No targets given, skipping enumeration (downstream stages still run)")
	}
	er := enum.NewRunner(r.cfg, r.c)
	for _, domain := range targets {
		cyan.Printf("\n[+] Enumerating %s\n", domain)
		if wildcard, ips := r.wildcard.Check(domain); wildcard {
			yellow.Printf("    [!] Wildcard DNS detected (%s), bruteforce output may contain noise\n", strings.Join(ips, ", "))
		}

		executor.RunGroup(ctx, er.Stages(ws, domain)...)
		enumerated = true

		lines, missing := aggregate.Merge(ws.EnumFiles())
		for _, m := range missing {
			yellow.Printf("    [!] Skipping missing enumeration output %s\n", m)
		}
		for _, l := range lines {
			union[l] = true
		}
	}

	// Stage 2: aggregation into the deduplicated subdomain list
	cyan.Println("\n[+] Aggregating subdomains")
	executor.RunStage(ctx, pipeline.Stage{
		Name:    "aggregate",
		Outputs: []string{workspace.AllSubdomainsFile},
		Run: func(ctx context.Context) error {
			if !enumerated {
				// Nothing enumerated this run; fall back to whatever
				// per-tool files a previous run left behind.
				lines, missing := aggregate.Merge(ws.EnumFiles())
				if len(missing) == len(ws.EnumFiles()) {
					return fmt.Errorf("no enumeration outputs found in %s", ws.Dir())
				}
				for _, l := range lines {
					union[l] = true
				}
			}
			return ws.WriteLines(workspace.AllSubdomainsFile, sortedKeys(union))
		},
	})
	fmt.Printf("    %d unique subdomains\n", len(union))

	// Stage 3: HTTP liveness probing
	cyan.Println("\n[+] Probing live hosts")
	p := probe.NewProber(r.cfg)
	executor.RunStage(ctx, pipeline.Stage{
		Name:    "httpx",
		Outputs: []string{workspace.ProbeFile},
		Skip:    !r.c.IsInstalled("httpx"),
		Reason:  "not installed",
		Run: func(ctx context.Context) error {
			return p.Probe(ctx, ws)
		},
	})

	// Stage 4: split probe output into the derived host views
	cyan.Println("\n[+] Splitting hosts by status")
	executor.RunStage(ctx, pipeline.Stage{
		Name:    "split",
		Outputs: []string{workspace.Hosts200File, workspace.Hosts400File, workspace.AllHostsFile},
		Run: func(ctx context.Context) error {
			lines, err := ws.ReadLines(workspace.ProbeFile)
			if err != nil {
				return fmt.Errorf("split input: %w", err)
			}
			res := probe.Split(lines)
			if err := ws.WriteLines(workspace.Hosts200File, res.Hosts200); err != nil {
				return err
			}
			if err := ws.WriteLines(workspace.Hosts400File, res.Hosts400); err != nil {
				return err
			}
			if err := ws.WriteLines(workspace.AllHostsFile, res.AllHosts); err != nil {
				return err
			}
			fmt.Printf("    %d live (2xx), %d client errors (4xx), %d hosts total\n",
				len(res.Hosts200), len(res.Hosts400), len(res.AllHosts))
			return nil
		},
	})

	// Stage group 5: independent post-processing scanners
	cyan.Println("\n[+] Post-processing")
	executor.RunGroup(ctx, r.postStages(ws, targets)...)

	// Stage 6: screenshots, then visual clustering over the results
	cyan.Println("\n[+] Screenshots")
	sc := screenshot.NewCapturer(r.cfg)
	shot := executor.RunStage(ctx, pipeline.Stage{
		Name:    "aquatone",
		Outputs: []string{workspace.ScreenshotDirName},
		Skip:    r.cfg.SkipScreenshots || !r.c.IsInstalled("aquatone"),
		Reason:  skipReason(r.cfg.SkipScreenshots, "--skip-screenshots", "not installed"),
		Run: func(ctx context.Context) error {
			return sc.Capture(ctx, ws)
		},
	})
	executor.RunStage(ctx, pipeline.Stage{
		Name:    "screenshot-cluster",
		Outputs: []string{workspace.ClustersFile},
		Skip:    shot.Status != pipeline.StatusCompleted,
		Reason:  "no screenshots captured",
		Run: func(ctx context.Context) error {
			return screenshot.ClusterDir(ws)
		},
	})

	executor.Summary()
	if history != nil {
		for _, res := range executor.Results() {
			if err := history.RecordStage(scanID, res); err != nil {
				yellow.Printf("[!] Scan history: %v\n", err)
				break
			}
		}
		if err := history.FinishScan(scanID, time.Now()); err != nil {
			yellow.Printf("[!] Scan history: %v\n", err)
		}
	}
	debug.Summary()

	fmt.Printf("\n[*] Done in %s, results in %s\n", time.Since(start).Round(time.Second), ws.Dir())
	return nil
}

// postStages builds the concurrent post-processing group
func (r *Runner) postStages(ws *workspace.Workspace, targets []string) []pipeline.Stage {
	tc := takeover.NewChecker(r.cfg)
	bs := buckets.NewScanner(r.cfg)
	vs := vulnscan.NewScanner(r.cfg)
	ps := portscan.NewScanner(r.cfg)
	td := techdetect.NewDetector(r.cfg)

	return []pipeline.Stage{
		{
			Name:    "subjack",
			Outputs: []string{workspace.TakeoverFile},
			Skip:    !r.c.IsInstalled("subjack"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				if err := tc.Check(ctx, ws); err != nil {
					return err
				}
				if lines, err := ws.ReadLines(workspace.TakeoverFile); err == nil {
					if n := takeover.CountVulnerable(lines); n > 0 {
						color.New(color.FgRed).Printf("    [!] %d takeover candidates\n", n)
					}
				}
				return nil
			},
		},
		{
			Name:    "s3scanner",
			Outputs: []string{workspace.BucketsFile},
			Skip:    !r.c.IsInstalled("s3scanner"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				return bs.Scan(ctx, ws)
			},
		},
		{
			Name:    "nuclei",
			Outputs: []string{workspace.NucleiFile},
			Skip:    !r.c.IsInstalled("nuclei"),
			Reason:  "not installed",
			Run: func(ctx context.Context) error {
				return vs.Scan(ctx, ws)
			},
		},
		{
			Name:    "whois",
			Outputs: []string{workspace.WhoisFile},
			Skip:    r.cfg.SkipWhois || len(targets) == 0,
			Reason:  skipReason(r.cfg.SkipWhois, "--skip-whois", "no targets"),
			Run: func(ctx context.Context) error {
				return domaininfo.Collect(ws, targets)
			},
		},
		{
			Name:    "portscan",
			Outputs: []string{workspace.PortsFile},
			Skip:    r.cfg.SkipPortScan || !r.c.IsInstalled("nmap"),
			Reason:  skipReason(r.cfg.SkipPortScan, "--skip-portscan", "nmap not installed"),
			Run: func(ctx context.Context) error {
				return ps.Scan(ctx, ws)
			},
		},
		{
			Name:    "techdetect",
			Outputs: []string{workspace.TechFile},
			Skip:    r.cfg.SkipTech,
			Reason:  "--skip-tech",
			Run: func(ctx context.Context) error {
				return td.Detect(ctx, ws)
			},
		},
	}
}

func (r *Runner) getTargets() ([]string, error) {
	if r.cfg.Domain != "" {
		return []string{strings.TrimSpace(r.cfg.Domain)}, nil
	}
	if r.cfg.ListFile != "" {
		lines, err := exec.ReadLines(r.cfg.ListFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read target list %s: %w", r.cfg.ListFile, err)
		}
		return lines, nil
	}
	return nil, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// aggregate.Merge already sorts per batch; the cross-target union
	// needs one more pass
	sort.Strings(out)
	return out
}

func skipReason(flagged bool, flagReason, otherReason string) string {
	if flagged {
		return flagReason
	}
	return otherReason
}
