package coordinator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetResolvingTracksPerKind(t *testing.T) {
	c := New(testLogger(), time.Millisecond)
	if c.IsResolving(KindDeps) {
		t.Fatal("expected deps not resolving initially")
	}
	c.SetResolving(KindDeps, true)
	if !c.IsResolving(KindDeps) {
		t.Fatal("expected deps resolving after SetResolving(true)")
	}
	if c.IsResolving(KindFiles) {
		t.Fatal("expected files unaffected by deps flag")
	}
}

func TestDebounceDetailFetchCoalescesRapidRequests(t *testing.T) {
	c := New(testLogger(), 20*time.Millisecond)

	var mu sync.Mutex
	calls := 0
	fn := func() {
		mu.Lock()
		calls++
		mu.Unlock()
	}

	c.DebounceDetailFetch("ripgrep", fn)
	time.Sleep(5 * time.Millisecond)
	c.DebounceDetailFetch("ripgrep", fn) // cancels the first pending timer
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one debounced fetch to fire, got %d", calls)
	}
}

func TestCancelPendingDetailFetchPreventsFire(t *testing.T) {
	c := New(testLogger(), 10*time.Millisecond)

	var mu sync.Mutex
	fired := false
	c.DebounceDetailFetch("ripgrep", func() {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	c.CancelPendingDetailFetch("ripgrep")
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Fatal("expected canceled fetch not to fire")
	}
}

func TestStartJobCancelsPreviousJobOfSameKind(t *testing.T) {
	c := New(testLogger(), time.Millisecond)

	ctx1 := c.StartJob(context.Background(), KindDeps)
	ctx2 := c.StartJob(context.Background(), KindDeps)

	select {
	case <-ctx1.Done():
	default:
		t.Fatal("expected first job's context canceled when a second job of the same kind starts")
	}
	select {
	case <-ctx2.Done():
		t.Fatal("expected second job's context to remain live")
	default:
	}
}

func TestOnInstallListChangedCancelsAllJobsAndInvalidatesEachKind(t *testing.T) {
	c := New(testLogger(), time.Millisecond)
	ctx := c.StartJob(context.Background(), KindFiles)
	c.SetResolving(KindFiles, true)

	var invalidated []Kind
	c.OnInstallListChanged(func(k Kind) { invalidated = append(invalidated, k) })

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected in-flight job canceled on install-list mutation")
	}
	if c.IsResolving(KindFiles) {
		t.Fatal("expected resolving flag cleared on install-list mutation")
	}
	if len(invalidated) != 4 {
		t.Fatalf("expected all four kinds invalidated, got %v", invalidated)
	}
}
