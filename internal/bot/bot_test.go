package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/laporbot/internal/bot/tasks"
	"github.com/edgard/laporbot/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingListener struct{ started atomic.Bool }

func (l *blockingListener) Start(ctx context.Context) {
	l.started.Store(true)
	<-ctx.Done()
}

type returningListener struct{}

func (returningListener) Start(context.Context) {}

func newTestScheduler(t *testing.T, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) *Scheduler {
	t.Helper()
	s, err := NewScheduler(quietLogger(), cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	return s
}

func TestBotRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	listener := &blockingListener{}
	b := NewBot(quietLogger(), listener, newTestScheduler(t, nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	if !listener.started.Load() {
		t.Error("listener was never started")
	}
}

func TestBotRun_ListenerExitIsAnError(t *testing.T) {
	t.Parallel()

	b := NewBot(quietLogger(), returningListener{}, newTestScheduler(t, nil, nil))

	done := make(chan error, 1)
	go func() { done <- b.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Run() error = nil, want error for unexpected listener exit")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
}

func TestScheduler_RunsEnabledTask(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 1)
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return errors.New("failures are only logged")
		},
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick": {Enabled: true, Schedule: "* * * * * *"},
	}}

	s := newTestScheduler(t, cfg, taskMap)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not run within 5s")
	}
}

func TestScheduler_SkipsUnschedulableTasks(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"good":     noop,
		"disabled": noop,
		"empty":    noop,
		"badcron":  noop,
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"good":     {Enabled: true, Schedule: "0 */30 * * * *"},
		"disabled": {Enabled: false, Schedule: "0 * * * * *"},
		"empty":    {Enabled: true},
		"badcron":  {Enabled: true, Schedule: "not a cron"},
		"unknown":  {Enabled: true, Schedule: "0 * * * * *"},
	}}

	s := newTestScheduler(t, cfg, taskMap)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })

	got := s.Jobs()
	sort.Strings(got)
	if diff := cmp.Diff([]string{"good"}, got); diff != "" {
		t.Errorf("scheduled jobs mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduler_Lifecycle(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t, nil, nil)

	if err := s.Stop(); err != nil {
		t.Errorf("Stop() before Start() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() should fail")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
