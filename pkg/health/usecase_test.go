package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/artem13815/growth/pkg/health"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                { return f.name }
func (f fakeChecker) Check(context.Context) error { return f.err }

// hangingChecker only returns once its context is done.
type hangingChecker struct{}

func (hangingChecker) Name() string { return "redis" }
func (hangingChecker) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReady(t *testing.T) {
	ctx := context.Background()

	r := health.NewService(time.Second).Ready(ctx)
	assert.True(t, r.Ready)
	assert.Empty(t, r.Checks)

	r = health.NewService(time.Second, fakeChecker{name: "postgres"}).Ready(ctx)
	assert.True(t, r.Ready)
	assert.Equal(t, map[string]string{"postgres": "ok"}, r.Checks)
}

func TestReadyReportsEveryChecker(t *testing.T) {
	down := errors.New("connection refused")
	r := health.NewService(time.Second,
		fakeChecker{name: "postgres", err: down},
		fakeChecker{name: "redis"},
	).Ready(context.Background())

	assert.False(t, r.Ready)
	assert.Equal(t, map[string]string{"postgres": "connection refused", "redis": "ok"}, r.Checks)
}

func TestReadyTimesOutSlowChecker(t *testing.T) {
	start := time.Now()
	r := health.NewService(20*time.Millisecond, fakeChecker{name: "postgres"}, hangingChecker{}).Ready(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, r.Ready)
	assert.Equal(t, "ok", r.Checks["postgres"])
	assert.Equal(t, context.DeadlineExceeded.Error(), r.Checks["redis"])
}
