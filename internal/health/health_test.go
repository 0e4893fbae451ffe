package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/testutil"
)

type recordingSetter struct {
	mu       sync.Mutex
	statuses map[string]healthpb.HealthCheckResponse_ServingStatus
	calls    int
}

func (r *recordingSetter) SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statuses == nil {
		r.statuses = map[string]healthpb.HealthCheckResponse_ServingStatus{}
	}
	r.statuses[service] = status
	r.calls++
}

func (r *recordingSetter) get(service string) healthpb.HealthCheckResponse_ServingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statuses[service]
}

func TestChecker_Check(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		probes map[string]Probe
		want   Status
	}{
		"no probes": {
			probes: map[string]Probe{},
			want:   StatusHealthy,
		},
		"all healthy": {
			probes: map[string]Probe{
				"database": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return nil },
			},
			want: StatusHealthy,
		},
		"one failing": {
			probes: map[string]Probe{
				"database": func(context.Context) error { return errors.New("connection refused") },
				"redis":    func(context.Context) error { return nil },
			},
			want: StatusUnhealthy,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := NewChecker(time.Second, testutil.MakeNoopLogger())
			for n, p := range tt.probes {
				c.Add(n, p)
			}

			report := c.Check(context.Background())
			assert.Equal(t, tt.want, report.Status)
			assert.Len(t, report.Components, len(tt.probes))
		})
	}
}

func TestChecker_Check_Timeout(t *testing.T) {
	c := NewChecker(10*time.Millisecond, testutil.MakeNoopLogger())
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	report := c.Check(context.Background())
	require.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, MessageTimeout, report.Components["slow"].Message)
}

func TestChecker_Check_HidesProbeErrors(t *testing.T) {
	var logs bytes.Buffer
	c := NewChecker(time.Second, logger.NewWithWriter(&logs, 0))
	c.Add("database", func(context.Context) error {
		return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	})

	report := c.Check(context.Background())
	require.Equal(t, StatusUnhealthy, report.Status)
	assert.Equal(t, MessageUnavailable, report.Components["database"].Message)

	body, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "10.0.0.5")
	assert.Contains(t, logs.String(), "10.0.0.5:5432")
}

func TestChecker_Publish(t *testing.T) {
	t.Parallel()

	var healthy bool
	var mu sync.Mutex
	c := NewChecker(time.Second, testutil.MakeNoopLogger())
	c.Add("database", func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		if healthy {
			return nil
		}
		return errors.New("down")
	})

	setter := &recordingSetter{}
	c.Publish(context.Background(), setter)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, setter.get(""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, setter.get(ServiceName))

	mu.Lock()
	healthy = true
	mu.Unlock()
	c.Publish(context.Background(), setter)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, setter.get(ServiceName))
}

func TestChecker_Watch(t *testing.T) {
	c := NewChecker(time.Second, testutil.MakeNoopLogger())
	c.Add("database", func(context.Context) error { return nil })

	srv := grpchealth.NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Watch(ctx, 5*time.Millisecond, srv)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	resp, err := srv.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)
}
