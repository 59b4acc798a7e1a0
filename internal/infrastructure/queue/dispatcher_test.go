package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

type recordingService struct {
	mu     sync.Mutex
	byUser map[string][]string
	total  int
	block  chan struct{}
}

func newRecordingService() *recordingService {
	return &recordingService{byUser: make(map[string][]string)}
}

func (s *recordingService) Process(_ context.Context, ev domain.ActivityEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[ev.VisitorID] = append(s.byUser[ev.VisitorID], ev.Path)
	s.total++
	return nil
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func TestDispatcher_PerVisitorOrdering(t *testing.T) {
	svc := newRecordingService()
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	visitors := []string{"1", "2", "3", "anonymous-x", "anonymous-y"}
	const perVisitor = 50
	for i := 0; i < perVisitor; i++ {
		for _, v := range visitors {
			d.Publish(domain.ActivityEvent{Kind: domain.ActivityPageView, VisitorID: v, Path: fmt.Sprintf("/p/%d", i)})
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for svc.count() < perVisitor*len(visitors) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out: processed %d events", svc.count())
		}
		time.Sleep(5 * time.Millisecond)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, v := range visitors {
		paths := svc.byUser[v]
		for i, p := range paths {
			if want := fmt.Sprintf("/p/%d", i); p != want {
				t.Fatalf("visitor %s: event %d out of order: got %s", v, i, p)
			}
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(), zerolog.Nop())

	for _, v := range []string{"1", "abc", "anonymous-123", ""} {
		first := d.shardIndex(v)
		if first < 0 || first >= 8 {
			t.Fatalf("shard index out of range: %d", first)
		}
		if again := d.shardIndex(v); again != first {
			t.Fatalf("shard index not deterministic for %q", v)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := newRecordingService()
	svc.block = make(chan struct{})
	d := newDispatcher(1, 2, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	before := testutil.ToFloat64(metrics.ActivityDroppedTotal)

	done := make(chan struct{})
	go func() {
		// One event is held by the blocked worker, two fill the buffer,
		// the rest must be dropped without blocking.
		for i := 0; i < 10; i++ {
			d.Publish(domain.ActivityEvent{VisitorID: "1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Publish blocked on a full queue")
	}

	if dropped := testutil.ToFloat64(metrics.ActivityDroppedTotal) - before; dropped < 7 {
		t.Fatalf("expected at least 7 dropped events, got %v", dropped)
	}

	close(svc.block)
	cancel()
	d.Wait()
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(3, newRecordingService(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	stopped := make(chan struct{})
	go func() {
		d.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("workers did not stop after cancel")
	}
}
