package screenshot

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corona10/goimagehash"

	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// Perceptual hash distance below which two pages count as the same view.
// 0 is an exact match, 64 is completely different.
const clusterThreshold = 8

type hashed struct {
	path string
	hash *goimagehash.ImageHash
}

// ClusterDir groups the captured screenshots by visual similarity and
// writes one line per cluster into the workspace. Clustering is best
// effort: unreadable files are skipped.
func ClusterDir(ws *workspace.Workspace) error {
	dir := ws.Path(workspace.ScreenshotDirName)

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && isImageFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk screenshot directory: %w", err)
	}
	sort.Strings(files)

	var entries []hashed
	for _, f := range files {
		h, err := hashFile(f)
		if err != nil {
			continue
		}
		entries = append(entries, hashed{path: f, hash: h})
	}

	clusters := cluster(entries)

	lines := make([]string, 0, len(clusters))
	for i, c := range clusters {
		names := make([]string, len(c))
		for j, e := range c {
			names[j] = filepath.Base(e.path)
		}
		lines = append(lines, fmt.Sprintf("cluster-%d (%d): %s", i+1, len(c), strings.Join(names, " ")))
	}
	return ws.WriteLines(workspace.ClustersFile, lines)
}

// cluster greedily assigns each image to the first cluster whose
// representative is within the threshold
func cluster(entries []hashed) [][]hashed {
	var clusters [][]hashed
	for _, e := range entries {
		placed := false
		for i, c := range clusters {
			d, err := c[0].hash.Distance(e.hash)
			if err == nil && d <= clusterThreshold {
				clusters[i] = append(clusters[i], e)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []hashed{e})
		}
	}
	return clusters
}

func hashFile(path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return goimagehash.PerceptionHash(img)
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
