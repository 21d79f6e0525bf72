package techdetect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Detector fingerprints the responding 2xx URLs and writes one line per
// host with the detected technology names.
type Detector struct {
	cfg    *config.Config
	client *http.Client
}

func NewDetector(cfg *config.Config) *Detector {
	return &Detector{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *Detector) Detect(ctx context.Context, ws *workspace.Workspace) error {
	urls, err := ws.ReadLines(workspace.Hosts200File)
	if err != nil {
		return fmt.Errorf("tech detection input: %w", err)
	}
	if len(urls) == 0 {
		return ws.WriteLines(workspace.TechFile, nil)
	}

	wc, err := wappalyzer.New()
	if err != nil {
		return fmt.Errorf("wappalyzer init failed: %w", err)
	}

	threads := d.cfg.Threads
	if threads <= 0 {
		threads = 10
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, threads)
	results := make(map[string][]string)

	for _, u := range urls {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			techs := d.fingerprint(ctx, wc, target)
			if len(techs) == 0 {
				return
			}
			mu.Lock()
			results[target] = techs
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	hosts := make([]string, 0, len(results))
	for h := range results {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)

	lines := make([]string, 0, len(hosts))
	for _, h := range hosts {
		lines = append(lines, fmt.Sprintf("%s: %s", h, strings.Join(results[h], ", ")))
	}
	return ws.WriteLines(workspace.TechFile, lines)
}

func (d *Detector) fingerprint(ctx context.Context, wc *wappalyzer.Wappalyze, target string) []string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "auto-subdomain/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}

	raw := wc.Fingerprint(resp.Header, body)
	techs := make([]string, 0, len(raw))
	for name := range raw {
		techs = append(techs, name)
	}
	sort.Strings(techs)
	return techs
}
