package buckets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Scanner checks discovered hostnames for matching public storage buckets.
// s3scanner output is captured and filtered down to the buckets that exist.
type Scanner struct {
	cfg *config.Config
}

func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

func (s *Scanner) Scan(ctx context.Context, ws *workspace.Workspace) error {
	input := ws.Path(workspace.AllHostsFile)
	if !ws.Exists(workspace.AllHostsFile) {
		return fmt.Errorf("bucket scan input %s does not exist", input)
	}

	args := []string{"scan", "--buckets-file", input}
	res := exec.RunWithContext(ctx, "s3scanner", args, &exec.Options{Timeout: 15 * time.Minute})
	if res.Error != nil {
		return fmt.Errorf("s3scanner exited: %w", res.Error)
	}

	existing := FilterExisting(exec.Lines(res.Stdout))
	return ws.WriteLines(workspace.BucketsFile, existing)
}

// FilterExisting keeps only the report lines for buckets that exist
func FilterExisting(lines []string) []string {
	var out []string
	for _, l := range lines {
		lower := strings.ToLower(l)
		if !strings.Contains(lower, "exists") {
			continue
		}
		if strings.Contains(lower, "not_exist") || strings.Contains(lower, "does not exist") {
			continue
		}
		out = append(out, l)
	}
	return out
}
