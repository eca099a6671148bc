package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

type mockAnalyzer struct {
	calls int32
	fail  string // claims containing this substring fail
	delay time.Duration
}

func (m *mockAnalyzer) AnalyzeClaim(ctx context.Context, raw string) (*model.Analysis, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.fail != "" && strings.Contains(raw, m.fail) {
		return nil, errors.New("analysis failed")
	}
	return &model.Analysis{
		Claim:   model.Claim{Text: raw, Raw: raw},
		Payload: model.Payload{Claim: raw, Label: model.LabelUncertain},
	}, nil
}

func TestBatchProcessor_ProcessClaims_Order(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 3)

	claims := make([]string, 25)
	for i := range claims {
		claims[i] = "claim " + string(rune('a'+i))
	}

	results := processor.ProcessClaims(context.Background(), claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, r := range results {
		if r.Index != i || r.Claim != claims[i] {
			t.Errorf("result %d out of order: %+v", i, r)
		}
		if r.Error != nil || r.Analysis == nil {
			t.Errorf("unexpected failure for %q: %v", r.Claim, r.Error)
		}
	}
	if got := atomic.LoadInt32(&analyzer.calls); got != int32(len(claims)) {
		t.Errorf("expected %d analyzer calls, got %d", len(claims), got)
	}
}

func TestBatchProcessor_ProcessClaims_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{fail: "bad"}, 2)

	results := processor.ProcessClaims(context.Background(), []string{"good claim", "bad claim"})

	if results[0].Error != nil {
		t.Errorf("expected first claim to succeed, got %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Analysis != nil {
		t.Errorf("expected second claim to fail, got %+v", results[1])
	}
}

func TestBatchProcessor_ProcessClaims_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockAnalyzer{}, 2).ProcessClaims(context.Background(), nil)
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", results)
	}
}

func TestBatchProcessor_ProcessClaims_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	processor := NewBatchProcessor(&mockAnalyzer{delay: time.Second}, 1)
	results := processor.ProcessClaims(ctx, []string{"a", "b", "c"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Error == nil {
			t.Errorf("expected cancellation error for %q", r.Claim)
		}
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadClaimsFromFile(t *testing.T) {
	path := writeTempFile(t, "Water found on Mars\n# comment\n\n   Moon landing was faked  \nwater found on mars\n")

	claims, err := ReadClaimsFromFile(path)
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	expected := []string{"Water found on Mars", "Moon landing was faked"}
	if len(claims) != len(expected) {
		t.Fatalf("expected %d claims, got %d: %v", len(expected), len(claims), claims)
	}
	for i := range expected {
		if claims[i] != expected[i] {
			t.Errorf("claim %d = %q, want %q", i, claims[i], expected[i])
		}
	}
}

func TestReadClaimsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadClaimsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\n# skip\nthree\n")

	results, err := NewBatchProcessor(&mockAnalyzer{}, 2).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

type panickyAnalyzer struct{ mockAnalyzer }

func (p *panickyAnalyzer) AnalyzeClaim(ctx context.Context, raw string) (*model.Analysis, error) {
	if raw == "explode" {
		panic("collector bug")
	}
	return p.mockAnalyzer.AnalyzeClaim(ctx, raw)
}

func TestBatchProcessor_ProcessClaims_Panic(t *testing.T) {
	results := NewBatchProcessor(&panickyAnalyzer{}, 2).ProcessClaims(context.Background(), []string{"fine", "explode", "also fine"})

	if results[1].Error == nil || !strings.Contains(results[1].Error.Error(), "panicked") {
		t.Errorf("expected panic to fail the claim, got %v", results[1].Error)
	}
	for _, i := range []int{0, 2} {
		if results[i].Error != nil || results[i].Analysis == nil {
			t.Errorf("claim %d should be unaffected by the panic: %+v", i, results[i])
		}
	}
}
