package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront.GO/core/logger"
)

func TestRegistry_Register_Jobs(t *testing.T) {
	ran := false
	Register("testregistryjob", "@every 1h", func(_ context.Context, args ...string) error {
		ran = true
		return nil
	})
	defer Unregister("testregistryjob")

	jobs := Jobs()
	j, ok := jobs["testregistryjob"]
	if !ok {
		t.Fatal("testregistryjob not in Jobs()")
	}
	if j.Schedule != "@every 1h" {
		t.Errorf("Schedule = %q, want @every 1h", j.Schedule)
	}
	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ran {
		t.Error("Run did not execute")
	}
}

func TestRegistry_Register_DuplicatePanics(t *testing.T) {
	noop := func(context.Context, ...string) error { return nil }
	Register("dupjob", "@hourly", noop)
	defer Unregister("dupjob")
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate")
		}
	}()
	Register("dupjob", "@daily", noop)
}

func TestStartCron_RunsJobs(t *testing.T) {
	done := make(chan struct{}, 1)
	Register("testtickjob", "@every 1s", func(ctx context.Context, _ ...string) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return errors.New("logged, not fatal")
	})
	defer Unregister("testtickjob")

	c, err := StartCron(context.Background(), logger.Discard())
	if err != nil {
		t.Fatalf("StartCron: %v", err)
	}
	defer c.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestStartCron_BadSchedule(t *testing.T) {
	Register("testbadschedule", "every now and then", func(context.Context, ...string) error { return nil })
	defer Unregister("testbadschedule")

	if _, err := StartCron(context.Background(), logger.Discard()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
