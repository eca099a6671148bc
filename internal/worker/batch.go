package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Analyzer analyzes a single raw claim
type Analyzer interface {
	AnalyzeClaim(ctx context.Context, raw string) (*model.Analysis, error)
}

// ClaimResult is the outcome of analyzing one claim
type ClaimResult struct {
	Index    int // Position in the input
	Claim    string
	Analysis *model.Analysis
	Error    error
}

// BatchProcessor analyzes many claims concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessClaims analyzes claims on a worker pool and returns results in input order.
// Claims not started before ctx is cancelled are reported with ctx's error.
// A panicking analysis fails only its own claim.
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*ClaimResult {
	if len(claims) == 0 {
		return []*ClaimResult{}
	}

	pool := NewPool[*model.Analysis](ctx, b.concurrency)
	pool.Start()

	errs := make([]error, len(claims))
	go func() {
		defer pool.Close()
		for i, claim := range claims {
			i, claim := i, claim
			if _, ok := pool.Submit(func(ctx context.Context) *model.Analysis {
				analysis, err := b.analyzer.AnalyzeClaim(ctx, claim)
				errs[i] = err
				return analysis
			}); !ok {
				return
			}
		}
	}()

	results := make([]*ClaimResult, len(claims))
	for out := range pool.Outcomes() {
		r := &ClaimResult{Index: out.Seq, Claim: claims[out.Seq], Analysis: out.Value, Error: errs[out.Seq]}
		if out.Panic != nil {
			r.Analysis = nil
			r.Error = fmt.Errorf("analysis panicked: %w", out.Panic.AsError())
		}
		results[out.Seq] = r
	}

	for i, r := range results {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = &ClaimResult{Index: i, Claim: claims[i], Error: err}
		}
	}

	return results
}

// ProcessFile reads claims from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClaimResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file, one per line.
// Blank lines and lines starting with # are skipped; duplicates are dropped.
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
