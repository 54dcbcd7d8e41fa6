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

// Service runs the registered component checks and aggregates the outcome.
type Service struct {
	probes map[string]func(context.Context) error
}

// New creates a Service probing the stack store.
func New(db DBPinger) *Service {
	return &Service{probes: map[string]func(context.Context) error{
		"database": db.Ping,
	}}
}

// Check probes every component. Any failing probe degrades the report.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.probes))
	status := Healthy
	for name, probe := range s.probes {
		if err := probe(ctx); err != nil {
			checks[name] = CheckError
			status = Degraded
		} else {
			checks[name] = CheckOK
		}
	}
	return Report{Status: status, Checks: checks}
}
