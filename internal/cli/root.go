package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alishwani-112/auto-subdomain/internal/config"
	"github.com/alishwani-112/auto-subdomain/internal/debug"
	"github.com/alishwani-112/auto-subdomain/internal/runner"
	"github.com/alishwani-112/auto-subdomain/internal/version"
)

var (
	cfg     = *config.DefaultConfig()
	rootCmd = &cobra.Command{
		Use:   "auto-subdomain",
		Short: "Sequential subdomain reconnaissance pipeline",
		Long: `auto-subdomain - subdomain discovery pipeline for bug bounty and security testing.

Chains sublist3r, subfinder, shuffledns and amass, probes the results with
httpx, and hands the live hosts to subjack, s3scanner, nuclei and aquatone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}
)

func init() {
	// Bad flags get usage on stderr; main prints the error itself
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(cmd.UsageString())
		return err
	})

	// Target flags
	rootCmd.Flags().StringVarP(&cfg.Domain, "domain", "d", "", "Target domain to scan")
	rootCmd.Flags().StringVarP(&cfg.ListFile, "list", "r", "", "File containing list of domains")

	// Output flags
	rootCmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Output directory")

	// Tool knobs
	rootCmd.Flags().StringVar(&cfg.Wordlist, "wordlist", "", "Bruteforce wordlist for shuffledns")
	rootCmd.Flags().StringVar(&cfg.Resolvers, "resolvers", "", "Resolvers file for shuffledns")
	rootCmd.Flags().IntVarP(&cfg.Threads, "threads", "c", 0, "Concurrency passed to the external tools (0 = tool default)")
	rootCmd.Flags().IntVar(&cfg.RateLimit, "rate", 0, "Rate limit in requests per second (0 = unlimited)")
	rootCmd.Flags().StringVar(&cfg.ScreenshotPorts, "ports", cfg.ScreenshotPorts, "Candidate web ports for aquatone and the port scan")
	rootCmd.Flags().StringVar(&cfg.Severity, "severity", cfg.Severity, "Nuclei severity filter")

	// Stage toggles
	rootCmd.Flags().BoolVar(&cfg.SkipPortScan, "skip-portscan", false, "Skip the nmap service scan")
	rootCmd.Flags().BoolVar(&cfg.SkipTech, "skip-tech", false, "Skip technology fingerprinting")
	rootCmd.Flags().BoolVar(&cfg.SkipScreenshots, "skip-screenshots", false, "Skip aquatone screenshots")
	rootCmd.Flags().BoolVar(&cfg.SkipWhois, "skip-whois", false, "Skip the WHOIS lookup")
	rootCmd.Flags().BoolVar(&cfg.NoHistory, "no-history", false, "Disable the SQLite scan history")

	// Config file + debug
	rootCmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "YAML config file")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Show detailed timing logs for each tool execution")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	// Provider API keys for the enumeration tools travel through the
	// environment; a missing .env is fine
	godotenv.Load()
	return rootCmd.Execute()
}

func runPipeline(cmd *cobra.Command, args []string) error {
	printBanner()

	if cfg.ConfigFile != "" {
		f, err := config.LoadFile(cfg.ConfigFile)
		if err != nil {
			return err
		}
		f.Apply(&cfg, cmd.Flags().Changed)
	}

	if cfg.Debug {
		debug.Enable()
	}

	if cfg.Domain != "" && cfg.ListFile != "" {
		return fmt.Errorf("--domain and --list are mutually exclusive")
	}
	if cfg.Domain == "" && cfg.ListFile == "" {
		// Downstream stages still run against an existing workspace
		fmt.Fprintln(os.Stderr, "[!] No --domain or --list given; reprocessing existing workspace files")
	}

	r := runner.New(&cfg)
	return r.Run()
}

func printBanner() {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	red.Print(`
   ___ _   __/ /____        _____ __  __/ /_
  / _ '/ / / / __/ __ \    / ___/ / / / __ \
 / /_/ / /_/ / /_/ /_/ /   (__  ) /_/ / /_/ /
 \__,_/\__,_/\__/\____/   /____/\__,_/_.___/
`)
	fmt.Println()
	cyan.Print("  auto-subdomain")
	gray.Printf("  v%s\n", version.Version)
	fmt.Println()
}
