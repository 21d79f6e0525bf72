package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Status is the terminal state of a stage execution
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Stage is one external task in the pipeline: a name, the artifacts it owns,
// and the work itself. A stage is the only writer of its output files, which
// is what makes grouped stages safe to run concurrently.
type Stage struct {
	Name    string
	Outputs []string
	Skip    bool
	Reason  string // shown when Skip is set
	Run     func(ctx context.Context) error
}

// StageResult records how a stage ended
type StageResult struct {
	Name     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Executor runs stages sequentially or in concurrent groups behind a join
// barrier, capturing status and elapsed time for each. A failing stage is
// recorded and never halts the pipeline.
type Executor struct {
	mu      sync.Mutex
	results []StageResult
}

func NewExecutor() *Executor {
	return &Executor{}
}

// RunStage executes one stage to completion
func (e *Executor) RunStage(ctx context.Context, s Stage) StageResult {
	if s.Skip {
		res := StageResult{Name: s.Name, Status: StatusSkipped}
		e.record(res)
		yellow := color.New(color.FgYellow)
		if s.Reason != "" {
			yellow.Printf("    [-] %s skipped (%s)\n", s.Name, s.Reason)
		} else {
			yellow.Printf("    [-] %s skipped\n", s.Name)
		}
		return res
	}

	start := time.Now()
	err := s.Run(ctx)
	res := StageResult{Name: s.Name, Duration: time.Since(start)}
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		color.New(color.FgYellow).Printf("    [!] %s failed after %s: %v\n", s.Name, res.Duration.Round(time.Millisecond), err)
	} else {
		res.Status = StatusCompleted
	}
	e.record(res)
	return res
}

// RunGroup executes independent stages concurrently and joins before
// returning. Each stage owns its output files exclusively, so no
// coordination beyond the barrier is needed.
func (e *Executor) RunGroup(ctx context.Context, stages ...Stage) []StageResult {
	results := make([]StageResult, len(stages))
	var wg sync.WaitGroup
	for i, s := range stages {
		wg.Add(1)
		go func(idx int, stage Stage) {
			defer wg.Done()
			results[idx] = e.RunStage(ctx, stage)
		}(i, s)
	}
	wg.Wait()
	return results
}

func (e *Executor) record(r StageResult) {
	e.mu.Lock()
	e.results = append(e.results, r)
	e.mu.Unlock()
}

// Results returns all stage results in completion order
func (e *Executor) Results() []StageResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]StageResult{}, e.results...)
}

// CumulativeDuration sums every recorded stage's duration. Grouped stages
// overlap, so this is tool time spent, not wall time.
func (e *Executor) CumulativeDuration() time.Duration {
	var total time.Duration
	for _, r := range e.Results() {
		total += r.Duration
	}
	return total
}

// Summary prints the per-stage status table
func (e *Executor) Summary() {
	results := e.Results()
	if len(results) == 0 {
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	fmt.Println()
	fmt.Println("  Stage summary")
	fmt.Println("  ─────────────────────────────────────────────────")
	for _, r := range results {
		switch r.Status {
		case StatusCompleted:
			green.Printf("  ✓ %-22s %10s\n", r.Name, r.Duration.Round(time.Millisecond))
		case StatusFailed:
			red.Printf("  ✗ %-22s %10s\n", r.Name, r.Duration.Round(time.Millisecond))
		case StatusSkipped:
			yellow.Printf("  ⏹ %-22s   skipped\n", r.Name)
		}
	}
	fmt.Println("  ─────────────────────────────────────────────────")
	// grouped stages overlap, so this is not wall time
	fmt.Printf("  Cumulative stage time: %s\n", e.CumulativeDuration().Round(time.Millisecond))
}
