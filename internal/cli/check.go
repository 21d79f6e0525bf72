package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alishwani-112/auto-subdomain/internal/tools"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check installed tools",
	Long: `Check which external reconnaissance tools are installed and available.

Displays the status of all required and optional tools, and flags releases
older than the lowest known-good version.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Println("\n[+] Tool Status")
	fmt.Println()

	checker := tools.NewChecker()
	status := checker.CheckAll()
	goTools := tools.GoTools()

	requiredCount, requiredInstalled := 0, 0

	fmt.Println("Go Tools:")
	fmt.Println("─────────────────────────────────────────────────────")
	for i, tool := range status.Go {
		required := goTools[i].Required
		if required {
			requiredCount++
		}
		fmt.Printf("  %-12s ", tool.Name)
		switch {
		case tool.Installed && tool.Outdated:
			yellow.Printf("⚠ outdated")
			fmt.Printf(" (%s, want >= %s)\n", tool.Version, goTools[i].MinVersion)
			if required {
				requiredInstalled++
			}
		case tool.Installed:
			green.Printf("✓ installed")
			if tool.Version != "" {
				fmt.Printf(" (%s)", tool.Version)
			}
			fmt.Println()
			if required {
				requiredInstalled++
			}
		case required:
			red.Println("✗ not found")
		default:
			yellow.Println("○ not found (optional)")
		}
	}

	fmt.Println("\nPython Tools:")
	fmt.Println("─────────────────────────────────────────────────────")
	for _, tool := range status.Python {
		fmt.Printf("  %-12s ", tool.Name)
		if tool.Installed {
			green.Printf("✓ installed")
			if tool.Version != "" {
				fmt.Printf(" (%s)", tool.Version)
			}
			fmt.Println()
		} else {
			yellow.Println("○ not found (optional)")
		}
	}

	fmt.Println("\n─────────────────────────────────────────────────────")
	fmt.Printf("Required: %d/%d installed\n", requiredInstalled, requiredCount)

	if requiredInstalled < requiredCount {
		fmt.Println()
		yellow.Println("⚠ Some required tools are missing; their stages will be skipped")
	} else {
		fmt.Println()
		green.Println("✓ All required tools are installed!")
	}

	return nil
}
