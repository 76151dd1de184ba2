package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/albmartin/po-intake/pkg/lifecycle"
)

func TestStartupHooks(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	lc.OnStartup(func() { count.Add(1) })
	lc.OnStartup(func() { count.Add(1) })

	if lc.Ready() {
		t.Error("ready before startup hooks complete")
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 2 {
		t.Errorf("startup hooks ran %d times, want 2", got)
	}
	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
}

func TestShutdownHooks(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		ran.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !ran.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Context().Err(); err != nil {
		t.Fatalf("context cancelled before shutdown: %v", err)
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-release
	})
	defer close(release)

	if err := lc.Shutdown(10 * time.Millisecond); err == nil {
		t.Error("expected timeout error for a hung shutdown hook")
	}
}
