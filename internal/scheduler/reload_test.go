package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"distritoeldorado/internal/importer"
)

type fakeReloader struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
	stop  int
}

func (f *fakeReloader) Reload(ctx context.Context) (*importer.LoadReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls == f.stop {
		close(f.done)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &importer.LoadReport{Records: 3}, nil
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New("a cada hora", &fakeReloader{}, time.Second); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	if _, err := New("* * * * * *", &fakeReloader{}, time.Second); err == nil {
		t.Fatalf("six-field spec should be rejected")
	}
}

func TestNext(t *testing.T) {
	s, err := New("*/15 * * * *", &fakeReloader{}, time.Second)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	from := time.Date(2024, 1, 20, 10, 7, 0, 0, time.UTC)
	want := time.Date(2024, 1, 20, 10, 15, 0, 0, time.UTC)
	if got := s.Next(from); !got.Equal(want) {
		t.Fatalf("Next() = %v, want %v", got, want)
	}
}

func TestRun_ReloadsUntilCancelled(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure keeps running", errors.New("falha de rede")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReloader{err: tt.err, done: make(chan struct{}), stop: 3}
			s, err := New("0 * * * *", r, time.Second)
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			fired := make(chan time.Time)
			close(fired)
			s.after = func(time.Duration) <-chan time.Time { return fired }

			ctx, cancel := context.WithCancel(context.Background())
			finished := make(chan struct{})
			go func() {
				s.Run(ctx)
				close(finished)
			}()

			select {
			case <-r.done:
			case <-time.After(5 * time.Second):
				t.Fatalf("reloader was not called 3 times")
			}
			cancel()

			select {
			case <-finished:
			case <-time.After(5 * time.Second):
				t.Fatalf("Run did not stop after cancel")
			}
		})
	}
}
