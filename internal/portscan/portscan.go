package portscan

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Scanner runs a service scan over the responding hosts and writes one line
// per open port (`host port/proto service`).
type Scanner struct {
	cfg *config.Config
}

func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

func (s *Scanner) Scan(ctx context.Context, ws *workspace.Workspace) error {
	hosts, err := ws.ReadLines(workspace.AllHostsFile)
	if err != nil {
		return fmt.Errorf("port scan input: %w", err)
	}

	targets := uniqueHosts(hosts)
	if len(targets) == 0 {
		return ws.WriteLines(workspace.PortsFile, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	scanner, err := nmap.NewScanner(ctx,
		nmap.WithTargets(targets...),
		nmap.WithPorts(s.cfg.ScreenshotPorts),
		nmap.WithServiceInfo(),
		nmap.WithOpenOnly(),
		nmap.WithSkipHostDiscovery(),
		nmap.WithTimingTemplate(nmap.TimingAggressive),
	)
	if err != nil {
		return fmt.Errorf("create nmap scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return fmt.Errorf("run nmap: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		fmt.Printf("        [nmap] %d warnings\n", len(*warnings))
	}

	var lines []string
	for _, h := range result.Hosts {
		name := hostName(h)
		if name == "" {
			continue
		}
		for _, p := range h.Ports {
			if !strings.HasPrefix(strings.ToLower(p.State.State), "open") {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %d/%s %s", name, p.ID, p.Protocol, p.Service.Name))
		}
	}
	return ws.WriteLines(workspace.PortsFile, lines)
}

// hostName prefers the reverse name nmap resolved, falling back to address
func hostName(h nmap.Host) string {
	for _, n := range h.Hostnames {
		if n.Name != "" {
			return n.Name
		}
	}
	if len(h.Addresses) > 0 {
		return h.Addresses[0].Addr
	}
	return ""
}

// uniqueHosts normalizes host[:port][/path] lines to bare hosts and dedupes.
// Hosts without a port (including bare IPv6 literals) pass through as-is.
func uniqueHosts(lines []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lines {
		host := strings.TrimSpace(l)
		if i := strings.Index(host, "/"); i >= 0 {
			host = host[:i]
		}
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}
