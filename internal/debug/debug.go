package debug

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	enabled bool
	mu      sync.Mutex
	logs    []LogEntry
)

// LogEntry is one recorded tool invocation
type LogEntry struct {
	Timestamp time.Time
	Tool      string
	Args      string
	Duration  time.Duration
	Status    string
}

// Enable turns on per-tool timing logs for the rest of the run
func Enable() {
	mu.Lock()
	enabled = true
	mu.Unlock()
}

func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// LogStart announces a tool invocation and returns its start time
func LogStart(tool string, args []string) time.Time {
	if !IsEnabled() {
		return time.Now()
	}
	start := time.Now()
	gray := color.New(color.FgHiBlack)
	gray.Printf("    [DEBUG %s] START: %s %s\n", start.Format("15:04:05.000"), tool, strings.Join(args, " "))
	return start
}

// LogEnd records how the invocation ended and how much it produced
func LogEnd(tool string, args []string, start time.Time, err error, outputLines int) {
	if !IsEnabled() {
		return
	}
	duration := time.Since(start)
	end := time.Now()

	status := "OK"
	statusColor := color.New(color.FgGreen)
	if err != nil {
		status = fmt.Sprintf("ERROR: %v", err)
		statusColor = color.New(color.FgRed)
	}

	gray := color.New(color.FgHiBlack)
	gray.Printf("    [DEBUG %s] END:   %s ", end.Format("15:04:05.000"), tool)
	statusColor.Printf("%s", status)
	gray.Printf(" (duration: %s, output: %d lines)\n", duration.Round(time.Millisecond), outputLines)

	mu.Lock()
	logs = append(logs, LogEntry{
		Timestamp: end,
		Tool:      tool,
		Args:      strings.Join(args, " "),
		Duration:  duration,
		Status:    status,
	})
	mu.Unlock()
}

// Summary prints one line per recorded invocation with the total at the end
func Summary() {
	mu.Lock()
	entries := append([]LogEntry{}, logs...)
	mu.Unlock()
	if !IsEnabled() || len(entries) == 0 {
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("  Tool timings (debug)")
	fmt.Println("  ─────────────────────────────────────────────────")

	var total time.Duration
	for _, l := range entries {
		mark := "✓"
		if strings.HasPrefix(l.Status, "ERROR") {
			mark = "✗"
		}
		fmt.Printf("  %s %-20s %10s\n", mark, l.Tool, l.Duration.Round(time.Millisecond))
		total += l.Duration
	}

	fmt.Println("  ─────────────────────────────────────────────────")
	fmt.Printf("  Total tool time: %s over %d invocations\n", total.Round(time.Millisecond), len(entries))
}

// GetLogs returns a copy of all recorded invocations
func GetLogs() []LogEntry {
	mu.Lock()
	defer mu.Unlock()
	return append([]LogEntry{}, logs...)
}
