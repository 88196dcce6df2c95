package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
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

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	embedding  ProviderChecker
	extraction ProviderChecker
}

// New creates a Service. embedding and extraction can be nil.
func New(db DBPinger, embedding, extraction ProviderChecker) *Service {
	return &Service{db: db, embedding: embedding, extraction: extraction}
}

// Check runs health checks against all components. A provider failure
// degrades overall status; search still works with degraded signals.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["database"] = check(s.db.Ping(ctx))
	if s.embedding != nil {
		checks["embedding"] = check(s.embedding.HealthCheck(ctx))
	}
	if s.extraction != nil {
		checks["extraction"] = check(s.extraction.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func check(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
