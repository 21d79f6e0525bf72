package aggregate

import (
	"os"
	"sort"
	"strings"
)

// Merge unions the lines of the given files into a sorted, duplicate-free
// list. Enumeration inputs are soft: a missing or unreadable file is skipped
// and reported back rather than failing the union, so the pipeline proceeds
// with whatever the enumeration stage managed to produce.
func Merge(paths []string) (lines []string, missing []string) {
	seen := make(map[string]bool)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			missing = append(missing, p)
			continue
		}
		for _, l := range strings.Split(string(data), "\n") {
			l = strings.TrimSpace(l)
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			lines = append(lines, l)
		}
	}
	sort.Strings(lines)
	return lines, missing
}
