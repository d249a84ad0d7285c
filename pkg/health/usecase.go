package health

import (
	"context"
	"sync"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is the outcome of one readiness pass. Checks maps every checker name
// to "ok" or the failure message.
type Report struct {
	Ready  bool
	Checks map[string]string
}

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) Report
}

type service struct {
	timeout  time.Duration
	checkers []Checker
}

// NewService aggregates dependency checkers; each one gets timeout to answer.
// With none, the service is always ready.
func NewService(timeout time.Duration, checkers ...Checker) ReadinessUseCase {
	return &service{timeout: timeout, checkers: checkers}
}

// Ready runs all checkers concurrently and never stops at the first failure,
// so one request sees every broken dependency at once.
func (s *service) Ready(ctx context.Context) Report {
	results := make([]error, len(s.checkers))
	var wg sync.WaitGroup
	for i, ch := range s.checkers {
		wg.Add(1)
		go func(i int, ch Checker) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			results[i] = ch.Check(ctx)
		}(i, ch)
	}
	wg.Wait()

	report := Report{Ready: true, Checks: make(map[string]string, len(s.checkers))}
	for i, ch := range s.checkers {
		if results[i] != nil {
			report.Ready = false
			report.Checks[ch.Name()] = results[i].Error()
			continue
		}
		report.Checks[ch.Name()] = "ok"
	}
	return report
}
