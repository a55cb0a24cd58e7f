// Package health aggregates component health checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// StorePinger verifies the session store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EngineChecker verifies the analysis engine answers.
type EngineChecker interface {
	SelfCheck(ctx context.Context) error
}

// Service coordinates health checks.
type Service struct {
	store  StorePinger
	engine EngineChecker
}

// New creates a Service. engine can be nil.
func New(store StorePinger, engine EngineChecker) *Service {
	return &Service{store: store, engine: engine}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["sessions"] = CheckError
	} else {
		checks["sessions"] = CheckOK
	}

	if s.engine != nil {
		if err := s.engine.SelfCheck(ctx); err != nil {
			checks["engine"] = CheckError
		} else {
			checks["engine"] = CheckOK
		}
	}

	return Report{Status: aggregate(checks), Checks: checks}
}

func aggregate(checks map[string]CheckResult) Status {
	var failures int
	for _, c := range checks {
		if c == CheckError {
			failures++
		}
	}
	switch {
	case failures == 0:
		return Healthy
	case failures == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
