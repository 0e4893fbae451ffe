package health

import (
	"context"
	"errors"
	"sync"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/useraccounts-server/internal/logger"
)

// ServiceName is the name reported to gRPC health clients.
const ServiceName = "useraccounts"

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Probe checks a single dependency.
type Probe func(ctx context.Context) error

// Messages reported for failed probes. Probe errors themselves are only logged,
// since they can name hosts and ports.
const (
	MessageTimeout     = "timeout"
	MessageUnavailable = "unavailable"
)

// ComponentHealth represents the health of a single component
type ComponentHealth struct {
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	Duration string `json:"duration"`
}

// Report is the result of running every probe.
type Report struct {
	Status     Status                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// StatusSetter is satisfied by *health.Server from grpc.
type StatusSetter interface {
	SetServingStatus(service string, servingStatus healthpb.HealthCheckResponse_ServingStatus)
}

// Checker runs dependency probes.
type Checker struct {
	mu      sync.RWMutex
	probes  map[string]Probe
	timeout time.Duration
	logger  *logger.Logger
}

func NewChecker(timeout time.Duration, logger *logger.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{
		probes:  make(map[string]Probe),
		timeout: timeout,
		logger:  logger,
	}
}

// Add registers probe under name, replacing any previous one.
func (c *Checker) Add(name string, probe Probe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[name] = probe
}

// Check runs all probes in parallel.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	probes := make(map[string]Probe, len(c.probes))
	for name, p := range c.probes {
		probes[name] = p
	}
	c.mu.RUnlock()

	report := Report{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: make(map[string]ComponentHealth, len(probes)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, probe := range probes {
		wg.Add(1)
		go func(name string, probe Probe) {
			defer wg.Done()
			result := c.run(ctx, name, probe)
			mu.Lock()
			report.Components[name] = result
			mu.Unlock()
		}(name, probe)
	}
	wg.Wait()

	for _, comp := range report.Components {
		if comp.Status != StatusHealthy {
			report.Status = StatusUnhealthy
		}
	}

	return report
}

func (c *Checker) run(ctx context.Context, name string, probe Probe) ComponentHealth {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := probe(ctx); err != nil {
		c.logger.Warn("Health: component unhealthy",
			"component", name,
			"error", err.Error())

		message := MessageUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			message = MessageTimeout
		}
		return ComponentHealth{
			Status:   StatusUnhealthy,
			Message:  message,
			Duration: time.Since(start).String(),
		}
	}
	return ComponentHealth{
		Status:   StatusHealthy,
		Duration: time.Since(start).String(),
	}
}

// Publish runs the probes once and reports the result to setter.
func (c *Checker) Publish(ctx context.Context, setter StatusSetter) Report {
	report := c.Check(ctx)

	status := healthpb.HealthCheckResponse_SERVING
	if report.Status != StatusHealthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	setter.SetServingStatus("", status)
	setter.SetServingStatus(ServiceName, status)

	return report
}

// Watch publishes the probe result every interval until ctx is done.
func (c *Checker) Watch(ctx context.Context, interval time.Duration, setter StatusSetter) {
	c.Publish(ctx, setter)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			setter.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			setter.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
			return
		case <-ticker.C:
			c.Publish(ctx, setter)
		}
	}
}
