package domaininfo

import (
	"fmt"
	"strings"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Collect performs a WHOIS lookup per target domain and writes a short
// registrar summary for each into the workspace.
func Collect(ws *workspace.Workspace, domains []string) error {
	var lines []string
	for _, d := range domains {
		raw, err := whois.Whois(d)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: whois lookup failed: %v", d, err))
			continue
		}
		info, err := whoisparser.Parse(raw)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s: whois parse failed: %v", d, err))
			continue
		}
		lines = append(lines, Summarize(d, &info)...)
	}
	return ws.WriteLines(workspace.WhoisFile, lines)
}

// Summarize renders the parsed WHOIS record as flat report lines
func Summarize(domain string, info *whoisparser.WhoisInfo) []string {
	lines := []string{fmt.Sprintf("domain: %s", domain)}

	if info.Registrar != nil && info.Registrar.Name != "" {
		lines = append(lines, fmt.Sprintf("  registrar: %s", info.Registrar.Name))
	}
	if info.Domain != nil {
		if info.Domain.CreatedDate != "" {
			lines = append(lines, fmt.Sprintf("  created: %s", info.Domain.CreatedDate))
		}
		if info.Domain.ExpirationDate != "" {
			lines = append(lines, fmt.Sprintf("  expires: %s", info.Domain.ExpirationDate))
		}
		if len(info.Domain.NameServers) > 0 {
			lines = append(lines, fmt.Sprintf("  nameservers: %s", strings.Join(info.Domain.NameServers, ", ")))
		}
		if len(info.Domain.Status) > 0 {
			lines = append(lines, fmt.Sprintf("  status: %s", strings.Join(info.Domain.Status, ", ")))
		}
	}
	return lines
}
