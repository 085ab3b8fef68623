package appctx

import (
	"context"
	"sync"
	"time"

	"github.com/wssccc/appctx/internal/container"
)

type HealthStatus string

const (
	HealthStatusUp   HealthStatus = "up"
	HealthStatusDown HealthStatus = "down"
)

type HealthReport struct {
	Bean    string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker is implemented by beans that want to participate in
// Live and Health after the context has been refreshed.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Live fails with the first unhealthy bean, or nil when every
// HealthChecker bean reports healthy.
func (c *ApplicationContext) Live(ctx context.Context) error {
	for _, r := range c.Health(ctx) {
		if r.Status == HealthStatusDown {
			return container.NewError(
				container.ErrCodeValidationFailed,
				"health check failed",
				r.Error,
			).WithBean(r.Bean)
		}
	}
	return nil
}

// Health checks every constructed bean implementing HealthChecker,
// concurrently, and reports per-bean status and latency.
func (c *ApplicationContext) Health(ctx context.Context) []HealthReport {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports []HealthReport
	)

	for _, inst := range c.internal.Instances() {
		checker, ok := inst.Value.(HealthChecker)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name string, hc HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := hc.HealthCheck(ctx)

			report := HealthReport{
				Bean:    name,
				Status:  HealthStatusUp,
				Latency: time.Since(start),
			}
			if err != nil {
				report.Status = HealthStatusDown
				report.Error = err
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
		}(inst.Name, checker)
	}

	wg.Wait()
	return reports
}
