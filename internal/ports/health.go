package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned by Register when the name is taken.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// DefaultCheckTimeout bounds a single readiness check.
const DefaultCheckTimeout = 2 * time.Second

// HealthChecker reports whether a component can serve traffic.
type HealthChecker interface {
	Name() string

	// Check returns nil when healthy. It must honour ctx's deadline.
	Check(ctx context.Context) error
}

// OptionalChecker is implemented by checkers whose failure degrades the
// service without making it unready. The avatar downloader is one: quotes
// still render without pictures.
type OptionalChecker interface {
	HealthChecker
	Optional() bool
}

// HealthRegistry aggregates readiness checks.
type HealthRegistry interface {
	// Register returns ErrDuplicateChecker if the name is already taken.
	Register(checker HealthChecker) error

	// CheckAll runs every check concurrently.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the outcome of one check or of the whole registry.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// Ready reports whether the status allows serving traffic.
func (s HealthStatus) Ready() bool {
	return s != HealthStatusUnhealthy
}

// HealthResult is the aggregated readiness report.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Optional bool          `json:"optional,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is the in-process HealthRegistry.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checkers     map[string]HealthChecker
	checkTimeout time.Duration
	now          func() time.Time
}

// NewHealthRegistry returns an empty registry using DefaultCheckTimeout.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{
		checkers:     make(map[string]HealthChecker),
		checkTimeout: DefaultCheckTimeout,
		now:          time.Now,
	}
}

// Register adds checker under its name.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if _, ok := r.checkers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers[name] = checker

	return nil
}

// CheckAll runs the registered checks concurrently. The result is
// unhealthy if a required check fails and degraded if only optional
// checks fail.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := make([]HealthChecker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	// Checks report failures in their results, so the group never errors.
	var g errgroup.Group
	for i, c := range checkers {
		g.Go(func() error {
			results[i] = r.runCheck(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.now(),
	}

	for i, c := range checkers {
		res := results[i]
		out.Checks[c.Name()] = res

		switch {
		case res.Status == HealthStatusHealthy:
		case res.Optional:
			if out.Status == HealthStatusHealthy {
				out.Status = HealthStatusDegraded
			}
		default:
			out.Status = HealthStatusUnhealthy
		}
	}

	return out
}

func (r *DefaultHealthRegistry) runCheck(ctx context.Context, c HealthChecker) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()

	res := &CheckResult{Status: HealthStatusHealthy}
	if oc, ok := c.(OptionalChecker); ok {
		res.Optional = oc.Optional()
	}

	start := r.now()
	err := c.Check(ctx)
	res.Duration = r.now().Sub(start)

	if err != nil {
		res.Status = HealthStatusUnhealthy
		if res.Optional {
			res.Status = HealthStatusDegraded
		}
		res.Message = err.Error()
	}

	return res
}
