package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/veracity/internal/pipeline"
)

var (
	outJSON  string
	outMD    string
	timeout  time.Duration
	noCache  bool
	noFooter bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Fact-check a single claim",
	Long: `Check runs one claim through the full analysis:
- Normalize the claim text
- Query fact-check, search and news collectors concurrently
- Score the evidence through the fact-check, weighted and zero-evidence tiers
- Print the verdict and optionally write JSON and Markdown reports

Example:
  veracity check "ISRO launches Chandrayaan-4 mission"
  veracity check "Drinking hot water cures the flu" --json verdict.json --md verdict.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	checkCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall analysis timeout")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verdict cache")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	p, err := pipeline.New(cfg, pipeline.Options{Logger: log})
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Collectors: %s\n", strings.Join(p.Collectors(), ", "))
		fmt.Fprintf(os.Stderr, "Config: %s\n\n", configSource())
	}

	analysis, err := p.AnalyzeClaim(ctx, claim)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.RenderReport(analysis.Payload, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func configSource() string {
	if f := viper.ConfigFileUsed(); f != "" {
		return f
	}
	return "defaults"
}
