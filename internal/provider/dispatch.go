package provider

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gtr-comics/comic-grader/internal/grading"
	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/internal/monitoring"
	"github.com/gtr-comics/comic-grader/internal/resilience"
)

// DispatcherConfig tunes the resilience wrapping around provider calls.
type DispatcherConfig struct {
	MaxAttempts      int
	RatePerSecond    float64
	RateBurst        int
	BreakerThreshold int
}

// Dispatcher routes grading requests to providers, wrapping each call with
// rate limiting, retries, and a per-provider circuit breaker, then runs the
// response through the normalization pipeline.
type Dispatcher struct {
	registry *Registry
	metrics  *monitoring.Metrics
	breakers *resilience.ProviderBreakers
	retryCfg resilience.RetryConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rateCfg  rate.Limit
	burst    int
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, metrics *monitoring.Metrics, cfg DispatcherConfig) *Dispatcher {
	retryCfg := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.MaxAttempts
	}

	rateCfg := rate.Limit(2)
	if cfg.RatePerSecond > 0 {
		rateCfg = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 4
	}

	return &Dispatcher{
		registry: registry,
		metrics:  metrics,
		breakers: resilience.NewProviderBreakers(resilience.CircuitBreakerConfig{
			FailureThreshold: cfg.BreakerThreshold,
		}),
		retryCfg: retryCfg,
		limiters: make(map[string]*rate.Limiter),
		rateCfg:  rateCfg,
		burst:    burst,
	}
}

// Registry returns the underlying provider registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// BreakerStates returns the circuit state per provider for health reporting.
func (d *Dispatcher) BreakerStates() map[string]resilience.CircuitState {
	return d.breakers.States()
}

// Grade runs a grading request through the named provider. Failures are
// reported in the result rather than as an error so batch callers always
// get one result per provider.
func (d *Dispatcher) Grade(ctx context.Context, providerName string, req model.GradeRequest) model.GradeResult {
	p := d.registry.Get(providerName)
	if p == nil {
		return failedResult(providerName, "unknown provider: "+providerName)
	}
	if !p.Configured(ctx) {
		return failedResult(p.DisplayName(), p.Name()+" provider is not configured")
	}

	if err := d.limiter(p.Name()).Wait(ctx); err != nil {
		return failedResult(p.DisplayName(), err.Error())
	}

	if d.metrics != nil {
		d.metrics.IncInFlight()
		defer d.metrics.DecInFlight()
	}

	retryCfg := d.retryCfg
	retryCfg.OnRetry = resilience.RetryLogger(p.Name())
	breaker := d.breakers.Get(p.Name())

	start := time.Now()
	result, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*model.ProviderResult, error) {
		return resilience.ExecuteVal(ctx, breaker, func(ctx context.Context) (*model.ProviderResult, error) {
			return p.GradeComic(ctx, req)
		})
	})
	duration := time.Since(start)

	if err != nil {
		zap.L().Error("provider grading failed",
			zap.String("provider", p.Name()),
			zap.String("comic", req.ComicName),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		if d.metrics != nil {
			d.metrics.RecordGrading(p.Name(), "error", duration)
		}
		return failedResult(p.DisplayName(), err.Error())
	}

	report := grading.Normalize(result.Response)
	report.Provider = result.Provider
	report.Timestamp = result.Timestamp

	if d.metrics != nil {
		d.metrics.RecordGrading(p.Name(), "success", duration)
		if report.Metadata.GradeWasCapped {
			d.metrics.RecordCappedGrade(p.Name())
		}
		if report.Grade == nil {
			d.metrics.RecordParseMiss(p.Name(), "grade")
		}
	}

	zap.L().Info("comic graded",
		zap.String("provider", p.Name()),
		zap.String("comic", req.ComicName),
		zap.Duration("duration", duration),
	)

	return model.GradeResult{
		Success:   true,
		Provider:  result.Provider,
		Report:    &report,
		Timestamp: result.Timestamp,
	}
}

// GradeAll fans the request out to the named providers concurrently and
// returns one result per provider, in the order given.
func (d *Dispatcher) GradeAll(ctx context.Context, providerNames []string, req model.GradeRequest) []model.GradeResult {
	results := make([]model.GradeResult, len(providerNames))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range providerNames {
		g.Go(func() error {
			results[i] = d.Grade(ctx, name, req)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *Dispatcher) limiter(provider string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[provider]
	if !ok {
		l = rate.NewLimiter(d.rateCfg, d.burst)
		d.limiters[provider] = l
	}
	return l
}

func failedResult(provider, msg string) model.GradeResult {
	return model.GradeResult{
		Success:   false,
		Provider:  provider,
		Error:     msg,
		Timestamp: time.Now().UTC(),
	}
}
