package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alishwani-112/auto-subdomain/internal/debug"
)

const defaultTimeout = 5 * time.Minute

// Every running child is tracked so an interrupt can tear down the whole
// set of external tools, including anything they forked.
var (
	running   = make(map[int]*exec.Cmd)
	runningMu sync.Mutex
)

func track(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	runningMu.Lock()
	running[cmd.Process.Pid] = cmd
	runningMu.Unlock()
}

func untrack(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	runningMu.Lock()
	delete(running, cmd.Process.Pid)
	runningMu.Unlock()
}

// KillAllProcesses terminates every tracked child and its process group
func KillAllProcesses() {
	runningMu.Lock()
	defer runningMu.Unlock()

	for pid, cmd := range running {
		// negative pid targets the group the child was started in
		syscall.Kill(-pid, syscall.SIGKILL)
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}
	running = make(map[int]*exec.Cmd)
}

// Result is the outcome of one external tool invocation
type Result struct {
	Stdout, Stderr string
	ExitCode       int
	Duration       time.Duration
	Error          error
}

// Options tune a single invocation. The zero value gets a default timeout.
type Options struct {
	Timeout time.Duration
	Stdin   io.Reader
	Dir     string
	Env     []string
	Ctx     context.Context
}

// Run executes an external tool, capturing both output streams so tool
// noise never reaches the terminal. The child gets its own process group
// so interrupt cleanup can take its whole tree down.
func Run(name string, args []string, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	start := debug.LogStart(name, args)

	parent := opts.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Start()
	if err == nil {
		track(cmd)
		err = cmd.Wait()
		untrack(cmd)
	}

	r := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		Error:    err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.ExitCode = exitErr.ExitCode()
	}

	debug.LogEnd(name, args, start, r.Error, len(Lines(r.Stdout)))
	return r
}

// RunWithInput runs a command with the given string piped to stdin
func RunWithInput(name string, args []string, input string, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}
	opts.Stdin = strings.NewReader(input)
	return Run(name, args, opts)
}

// RunWithContext runs a command under a parent context for cancellation
func RunWithContext(ctx context.Context, name string, args []string, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}
	opts.Ctx = ctx
	return Run(name, args, opts)
}

// WriteTempFile writes content to a fresh temp file and returns its path
func WriteTempFile(content, suffix string) (string, error) {
	f, err := os.CreateTemp("", "autosub-*"+suffix)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), f.Close()
}

// TempFile is WriteTempFile plus a cleanup func that removes the file
func TempFile(content, suffix string) (string, func(), error) {
	path, err := WriteTempFile(content, suffix)
	if err != nil {
		return "", nil, err
	}
	return path, func() { os.Remove(path) }, nil
}

// ReadLines reads a file as trimmed, non-empty lines
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if l := strings.TrimSpace(s.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, s.Err()
}

// Lines splits captured output into trimmed, non-empty lines
func Lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
