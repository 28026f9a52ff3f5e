package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	rec := &recorder{}
	services := []Service{
		NewCleanup("db", func() error { rec.add("db"); return nil }),
		NewCleanup("memory", func() error { rec.add("memory"); return errors.New("disk full") }),
		NewCleanup("telegram", func() error { rec.add("telegram"); return nil }),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"telegram", "memory", "db"}, rec.calls)
}

type failing struct{}

func (failing) Start(context.Context) error    { return errors.New("bad token") }
func (failing) Shutdown(context.Context) error { return nil }

func TestStartServices_ReportsFailure(t *testing.T) {
	errs := make(chan error, 1)
	StartServices(context.Background(), []Service{failing{}}, func(err error) { errs <- err })

	select {
	case err := <-errs:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad token")
	case <-time.After(time.Second):
		t.Fatal("failure was not reported")
	}
}

func TestNewCleanup_Name(t *testing.T) {
	assert.Equal(t, "db", name(NewCleanup("db", nil)))
	assert.Equal(t, "srv.failing", name(failing{}))
}
