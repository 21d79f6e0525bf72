package probe

import (
	"regexp"
	"strings"
)

// statusRe matches the bracketed status annotation httpx appends to each
// line. Classifying on this field (instead of a bare substring match) keeps
// a status-like number inside a URL path from being miscounted.
var statusRe = regexp.MustCompile(`\[(\d{3})\]`)

// SplitResult holds the three derived views of the probe output
type SplitResult struct {
	Hosts200 []string // 2xx URLs, annotation stripped
	Hosts400 []string // 4xx URLs, annotation stripped
	AllHosts []string // every probed host, scheme stripped (host[:port])
}

// Split derives the 2xx, 4xx and all-hosts views from probe output lines
func Split(lines []string) *SplitResult {
	out := &SplitResult{}
	for _, line := range lines {
		url := stripAnnotation(line)
		if url == "" {
			continue
		}

		if m := statusRe.FindStringSubmatch(line); m != nil {
			switch m[1][0] {
			case '2':
				out.Hosts200 = append(out.Hosts200, url)
			case '4':
				out.Hosts400 = append(out.Hosts400, url)
			}
		}

		if host := stripScheme(url); host != "" {
			out.AllHosts = append(out.AllHosts, host)
		}
	}
	return out
}

// stripAnnotation removes everything from the first `[` onward
func stripAnnotation(line string) string {
	if i := strings.Index(line, "["); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// stripScheme returns the substring after the first `//`
func stripScheme(url string) string {
	if i := strings.Index(url, "//"); i >= 0 {
		return strings.TrimSpace(url[i+2:])
	}
	return ""
}
