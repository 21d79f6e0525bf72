package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alishwani-112/auto-subdomain/internal/cli"
	"github.com/alishwani-112/auto-subdomain/internal/exec"
)

func main() {
	// Clean up child processes on interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		fmt.Fprintf(os.Stderr, "\n[!] Received interrupt signal, cleaning up...\n")
		exec.KillAllProcesses()
		os.Exit(130)
	}()

	if err := cli.Execute(); err != nil {
		exec.KillAllProcesses()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
