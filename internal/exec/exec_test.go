package exec

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesStdout(t *testing.T) {
	t.Parallel()

	res := Run("sh", []string{"-c", "printf 'a.example.com\\nb.example.com\\n'"}, nil)
	if res.Error != nil {
		t.Fatalf("Run() error: %v", res.Error)
	}
	want := []string{"a.example.com", "b.example.com"}
	if got := Lines(res.Stdout); !reflect.DeepEqual(got, want) {
		t.Fatalf("stdout lines = %v, want %v", got, want)
	}
}

func TestRunCapturesExitCode(t *testing.T) {
	t.Parallel()

	res := Run("sh", []string{"-c", "echo oops >&2; exit 3"}, nil)
	if res.Error == nil {
		t.Fatal("expected an error for a non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Fatalf("stderr not captured: %q", res.Stderr)
	}
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()

	res := Run("definitely-not-a-real-binary-xyz", nil, nil)
	if res.Error == nil {
		t.Fatal("expected an error for a missing binary")
	}
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	res := Run("sh", []string{"-c", "sleep 5"}, &Options{Timeout: 100 * time.Millisecond})
	if res.Error == nil {
		t.Fatal("expected an error when the timeout fires")
	}
	if res.Duration >= 5*time.Second {
		t.Fatalf("command was not cut short: ran %s", res.Duration)
	}
}

func TestRunWithInput(t *testing.T) {
	t.Parallel()

	res := RunWithInput("sh", []string{"-c", "cat"}, "host1.example.com\nhost2.example.com\n", nil)
	if res.Error != nil {
		t.Fatalf("RunWithInput() error: %v", res.Error)
	}
	if got := Lines(res.Stdout); len(got) != 2 {
		t.Fatalf("expected stdin echoed back, got %v", got)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	got := Lines("  a  \n\nb\n   \nc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	if Lines("") != nil {
		t.Fatal("Lines(\"\") should be nil")
	}
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	path, cleanup, err := TempFile("a.example.com\n\n  b.example.com  \n", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	want := []string{"a.example.com", "b.example.com"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("ReadLines() = %v, want %v", lines, want)
	}
}

func TestTempFileCleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := TempFile("x", ".txt")
	if err != nil {
		t.Fatal(err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file %s not removed", path)
	}
}
