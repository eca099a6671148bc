package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/classifier"
	"github.com/ppiankov/veracity/internal/collect"
	"github.com/ppiankov/veracity/internal/extract"
	"github.com/ppiankov/veracity/internal/logging"
	"github.com/ppiankov/veracity/internal/metrics"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/score"
	"github.com/ppiankov/veracity/internal/validate"
	"github.com/ppiankov/veracity/internal/worker"
)

// Options carries optional collaborators. Zero values are replaced by defaults
// built from the configuration.
type Options struct {
	Logger   logging.Logger
	Metrics  *metrics.Metrics
	Limiter  *worker.Limiter
	Cache    cache.Cache
	Gatherer *collect.Gatherer // Overrides the collectors built from config
}

// Pipeline orchestrates the complete claim analysis
type Pipeline struct {
	config   *model.Config
	gatherer *collect.Gatherer
	engine   *score.Engine
	cache    cache.Cache
	log      logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New creates a pipeline. The configuration is validated first.
func New(cfg *model.Config, opts Options) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		limiter := opts.Limiter
		if limiter == nil {
			limiter = worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
		}
		gatherer = buildGatherer(cfg, limiter, log, opts.Metrics)
	}

	store := opts.Cache
	if store == nil {
		store = cache.New(cfg.Cache)
	}

	return &Pipeline{
		config:   cfg,
		gatherer: gatherer,
		engine: score.NewEngine(cfg,
			validate.NewDomainClassifier(&cfg.Domains),
			validate.NewRecencyFilter(cfg.FactCheck.WindowDays)),
		cache:   store,
		log:     log,
		metrics: opts.Metrics,
		now:     time.Now,
	}, nil
}

func buildGatherer(cfg *model.Config, limiter *worker.Limiter, log logging.Logger, m *metrics.Metrics) *collect.Gatherer {
	gatherer := collect.NewGatherer(cfg.Collectors.Timeout, log, m)

	client := collect.NewClient(cfg.HTTP, limiter)
	checkers, searchers := collect.FromConfig(cfg.Collectors, client)
	for _, fc := range checkers {
		gatherer.AddFactChecker(fc)
	}
	for _, s := range searchers {
		gatherer.AddSearcher(s)
	}

	// A broken tiebreaker setup only loses the tiebreaker
	tb, err := classifier.New(classifier.ConfigFromModel(cfg.Tiebreaker, cfg.HTTP, cfg.Collectors.Timeout))
	if err != nil {
		log.Warn("tiebreaker disabled", logging.String("provider", cfg.Tiebreaker.Provider), logging.Err(err))
	} else if tb != nil {
		gatherer.SetClassifier(tb)
	}

	if len(checkers)+len(searchers) == 0 {
		log.Warn("no evidence collectors configured; every claim will report no evidence")
	}
	return gatherer
}

// Collectors returns the names of the active collectors
func (p *Pipeline) Collectors() []string {
	return p.gatherer.Collectors()
}

// AnalyzeClaim normalizes the claim, gathers evidence, decides a verdict and
// formats it. The only caller-visible failures are an empty claim and a
// cancelled context; collector problems degrade the evidence instead.
func (p *Pipeline) AnalyzeClaim(ctx context.Context, raw string) (*model.Analysis, error) {
	start := p.now()

	claim, err := extract.NewClaim(raw)
	if err != nil {
		return nil, err
	}

	key := cache.ClaimKey(claim.Text)
	if payload, ok := p.lookup(key); ok {
		p.log.Debug("verdict served from cache", logging.String("claim", claim.Text))
		return &model.Analysis{Claim: claim, Payload: payload, Cached: true}, nil
	}

	evidence := p.gatherer.Gather(ctx, claim)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	result := p.engine.Evaluate(claim, evidence)

	payload := Format(claim, result, evidence)
	payload.ID = uuid.NewString()
	payload.AnalyzedAt = start.UTC()

	p.store(key, payload)

	elapsed := p.now().Sub(start)
	p.metrics.ObserveVerdict(string(result.Label), string(result.Tier), elapsed)
	p.log.Info("claim analyzed",
		logging.String("id", payload.ID),
		logging.String("label", string(result.Label)),
		logging.String("tier", string(result.Tier)),
		logging.Int("confidence", result.Confidence),
		logging.Int("failed_collectors", len(evidence.Failures)),
		logging.Duration("elapsed", elapsed),
	)

	return &model.Analysis{Claim: claim, Result: &result, Payload: payload}, nil
}

func (p *Pipeline) lookup(key string) (model.Payload, bool) {
	if p.cache == nil {
		return model.Payload{}, false
	}

	data, ok := p.cache.Get(key)
	if ok {
		var payload model.Payload
		if err := json.Unmarshal(data, &payload); err == nil {
			p.metrics.ObserveCache(true)
			return payload, true
		}
		_ = p.cache.Delete(key)
	}

	p.metrics.ObserveCache(false)
	return model.Payload{}, false
}

// store caches a payload unless a collector failed, so transient outages are retried
func (p *Pipeline) store(key string, payload model.Payload) {
	if p.cache == nil || len(payload.Failed) > 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.log.Warn("encode payload for cache", logging.Err(err))
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.log.Warn("store payload in cache", logging.Err(err))
	}
}
