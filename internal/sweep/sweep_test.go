package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"careerpilot-api/pkg/models"
)

type fakeLister struct {
	industries []string
	err        error
}

func (l *fakeLister) ListIndustries(ctx context.Context) ([]string, error) {
	return l.industries, l.err
}

type fakeRefresher struct {
	calls   []string
	failFor map[string]bool
	delay   time.Duration
}

func (r *fakeRefresher) RefreshIndustry(ctx context.Context, industry string) error {
	r.calls = append(r.calls, industry)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.failFor[industry] {
		return errors.New("generation failed")
	}
	return nil
}

type fakeEnqueuer struct {
	available bool
	enqueued  []string
}

func (e *fakeEnqueuer) Available() bool { return e.available }

func (e *fakeEnqueuer) Enqueue(ctx context.Context, event models.InsightEvent) error {
	e.enqueued = append(e.enqueued, event.Industry)
	return nil
}

func TestSweepRefreshesAllIndustries(t *testing.T) {
	lister := &fakeLister{industries: []string{"Technology", "Finance", "Healthcare"}}
	refresher := &fakeRefresher{}
	s := New(lister, refresher, nil, 5*time.Minute)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Total != 3 || result.Refreshed != 3 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(refresher.calls) != 3 {
		t.Fatalf("expected 3 refresh calls, got %v", refresher.calls)
	}
}

func TestSweepIsolatesFailures(t *testing.T) {
	lister := &fakeLister{industries: []string{"Technology", "Finance", "Healthcare"}}
	refresher := &fakeRefresher{failFor: map[string]bool{"Finance": true}}
	s := New(lister, refresher, nil, 5*time.Minute)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Refreshed != 2 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The failing industry does not stop the ones after it
	if len(refresher.calls) != 3 {
		t.Fatalf("expected all industries attempted, got %v", refresher.calls)
	}
}

func TestSweepNeverCreatesRows(t *testing.T) {
	lister := &fakeLister{industries: nil}
	refresher := &fakeRefresher{}
	s := New(lister, refresher, nil, 5*time.Minute)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Total != 0 || len(refresher.calls) != 0 {
		t.Fatalf("empty store must mean a no-op sweep: %+v", result)
	}
}

func TestSweepPropagatesListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	s := New(lister, &fakeRefresher{}, nil, 5*time.Minute)

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("expected list error to propagate")
	}
}

func TestSweepPrefersDurableJobs(t *testing.T) {
	lister := &fakeLister{industries: []string{"Technology", "Finance"}}
	refresher := &fakeRefresher{}
	producer := &fakeEnqueuer{available: true}
	s := New(lister, refresher, producer, 5*time.Minute)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Refreshed != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(producer.enqueued) != 2 {
		t.Fatalf("expected jobs enqueued, got %v", producer.enqueued)
	}
	if len(refresher.calls) != 0 {
		t.Fatalf("inline refresher should be bypassed, got %v", refresher.calls)
	}
}

func TestSweepStopsAtBudget(t *testing.T) {
	lister := &fakeLister{industries: []string{"A", "B", "C", "D"}}
	refresher := &fakeRefresher{delay: 30 * time.Millisecond}
	s := New(lister, refresher, nil, 50*time.Millisecond)

	result, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Refreshed >= result.Total {
		t.Fatalf("expected budget to cut the sweep short: %+v", result)
	}
	if result.Refreshed+result.Failed != result.Total {
		t.Fatalf("skipped industries must count as failed: %+v", result)
	}
}
