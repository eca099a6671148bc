package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/ppiankov/veracity/internal/classifier"
	"github.com/ppiankov/veracity/internal/logging"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/model"
)

// DefaultTimeout bounds a single collector call
const DefaultTimeout = 7 * time.Second

// Gatherer runs every collector concurrently and merges their evidence.
// Each collector is its own failure domain: an error, timeout or panic
// leaves that source empty and never fails the gather.
type Gatherer struct {
	factCheckers []FactChecker
	searchers    []Searcher
	classifier   classifier.Classifier
	timeout      time.Duration
	log          logging.Logger
	metrics      *metrics.Metrics
}

// NewGatherer creates a gatherer with the given per-collector timeout
func NewGatherer(timeout time.Duration, log logging.Logger, m *metrics.Metrics) *Gatherer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Gatherer{timeout: timeout, log: log, metrics: m}
}

// AddFactChecker registers a fact-check collector
func (g *Gatherer) AddFactChecker(fc FactChecker) {
	g.factCheckers = append(g.factCheckers, fc)
}

// AddSearcher registers a search or news collector
func (g *Gatherer) AddSearcher(s Searcher) {
	g.searchers = append(g.searchers, s)
}

// SetClassifier sets the optional tiebreaker, run alongside the collectors
func (g *Gatherer) SetClassifier(c classifier.Classifier) {
	g.classifier = c
}

// Collectors returns the names of every registered collector
func (g *Gatherer) Collectors() []string {
	names := make([]string, 0, len(g.factCheckers)+len(g.searchers))
	for _, fc := range g.factCheckers {
		names = append(names, fc.Name())
	}
	for _, s := range g.searchers {
		names = append(names, s.Name())
	}
	return names
}

// Gather runs all collectors and waits for every one to settle.
// Each task writes only its own slot; results are merged afterwards.
func (g *Gatherer) Gather(ctx context.Context, claim model.Claim) model.EvidenceSet {
	factResults := make([][]model.FactCheckRecord, len(g.factCheckers))
	factErrs := make([]error, len(g.factCheckers))
	searchResults := make([][]model.EvidenceItem, len(g.searchers))
	searchErrs := make([]error, len(g.searchers))
	var prediction *model.Prediction
	var predictionErr error

	var wg conc.WaitGroup
	for i, fc := range g.factCheckers {
		wg.Go(func() {
			factResults[i], factErrs[i] = invoke(ctx, g, fc.Name(), func(ctx context.Context) ([]model.FactCheckRecord, error) {
				return fc.Lookup(ctx, claim)
			}, func(r []model.FactCheckRecord) int { return len(r) })
		})
	}
	for i, s := range g.searchers {
		wg.Go(func() {
			searchResults[i], searchErrs[i] = invoke(ctx, g, s.Name(), func(ctx context.Context) ([]model.EvidenceItem, error) {
				return s.Search(ctx, claim)
			}, func(r []model.EvidenceItem) int { return len(r) })
		})
	}
	if g.classifier != nil {
		wg.Go(func() {
			prediction, predictionErr = invoke(ctx, g, NameTiebreaker, func(ctx context.Context) (*model.Prediction, error) {
				return g.classifier.Classify(ctx, claim)
			}, func(p *model.Prediction) int {
				if p == nil {
					return 0
				}
				return 1
			})
		})
	}
	wg.Wait()

	set := model.EvidenceSet{
		FactChecks: []model.FactCheckRecord{},
		Search:     []model.EvidenceItem{},
		News:       []model.EvidenceItem{},
		Counts:     make(map[string]int),
		Failures:   make(map[string]string),
	}

	for i, fc := range g.factCheckers {
		set.Counts[fc.Name()] = len(factResults[i])
		if factErrs[i] != nil {
			set.Failures[fc.Name()] = factErrs[i].Error()
			continue
		}
		set.FactChecks = append(set.FactChecks, factResults[i]...)
	}

	for i, s := range g.searchers {
		set.Counts[s.Name()] = len(searchResults[i])
		if searchErrs[i] != nil {
			set.Failures[s.Name()] = searchErrs[i].Error()
			continue
		}
		if s.Kind() == model.EvidenceKindNews {
			set.News = append(set.News, searchResults[i]...)
		} else {
			set.Search = append(set.Search, searchResults[i]...)
		}
	}

	if predictionErr != nil {
		set.Failures[NameTiebreaker] = predictionErr.Error()
	} else {
		set.Prediction = prediction
	}

	return set
}

type outcome[T any] struct {
	value    T
	err      error
	panicked bool
}

// invoke runs fn under its own timeout, converting errors, timeouts and panics
// into ErrCollectorUnavailable. On failure the zero value is returned.
func invoke[T any](parent context.Context, g *Gatherer, name string, fn func(context.Context) (T, error), count func(T) int) (T, error) {
	ctx, cancel := context.WithTimeout(parent, g.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome[T], 1)

	go func() {
		var out outcome[T]
		var catcher panics.Catcher
		catcher.Try(func() {
			out.value, out.err = fn(ctx)
		})
		if r := catcher.Recovered(); r != nil {
			out.err = fmt.Errorf("%w: %s: panic: %v", ErrCollectorUnavailable, name, r.Value)
			out.panicked = true
		}
		done <- out
	}()

	var out outcome[T]
	select {
	case out = <-done:
	case <-ctx.Done():
		// A collector that ignores ctx finishes in the background; done is
		// buffered so its late result is dropped without blocking it
		out.err = ctx.Err()
	}

	elapsed := time.Since(start)
	status := metrics.OutcomeOK

	if out.err != nil {
		var zero T
		err := out.err

		switch {
		case out.panicked:
			status = metrics.OutcomePanic
		case errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil:
			status = metrics.OutcomeTimeout
			err = fmt.Errorf("%w: %s: timed out after %s", ErrCollectorUnavailable, name, g.timeout)
		default:
			status = metrics.OutcomeError
			if !errors.Is(err, ErrCollectorUnavailable) {
				err = fmt.Errorf("%w: %s: %w", ErrCollectorUnavailable, name, err)
			}
		}

		g.metrics.ObserveCollector(name, status, 0, elapsed)
		g.log.Warn("collector unavailable",
			logging.String("collector", name),
			logging.String("outcome", status),
			logging.Duration("elapsed", elapsed),
			logging.Err(err),
		)
		return zero, err
	}

	n := count(out.value)
	g.metrics.ObserveCollector(name, status, n, elapsed)
	g.log.Debug("collector finished",
		logging.String("collector", name),
		logging.Int("items", n),
		logging.Duration("elapsed", elapsed),
	)
	return out.value, nil
}
