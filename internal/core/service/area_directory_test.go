package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type stubAreaRepo struct {
	areas []domain.Area
	err   error
	calls atomic.Int32
	delay time.Duration
	// release, when set, blocks List until closed or ctx is done.
	release chan struct{}
}

func (r *stubAreaRepo) List(ctx context.Context) ([]domain.Area, error) {
	r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.areas, nil
}

var testAreas = []domain.Area{{ID: "b1", Name: "Bagong Silang"}, {ID: "b2", Name: "Poblacion"}}

func TestAreaDirectory_CachesAfterFirstSuccess(t *testing.T) {
	repo := &stubAreaRepo{areas: testAreas}
	dir := NewAreaDirectory(repo)

	for i := 0; i < 3; i++ {
		areas, err := dir.List(context.Background())
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(areas) != 2 {
			t.Fatalf("expected 2 areas, got %d", len(areas))
		}
	}
	if repo.calls.Load() != 1 {
		t.Fatalf("expected one store call, got %d", repo.calls.Load())
	}
}

func TestAreaDirectory_ConcurrentFirstFetchShared(t *testing.T) {
	repo := &stubAreaRepo{areas: testAreas, delay: 20 * time.Millisecond}
	dir := NewAreaDirectory(repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = dir.List(context.Background())
		}()
	}
	wg.Wait()

	if repo.calls.Load() != 1 {
		t.Fatalf("expected concurrent fetches to collapse into one, got %d", repo.calls.Load())
	}
}

func TestAreaDirectory_CancelledCallerDoesNotFailOthers(t *testing.T) {
	repo := &stubAreaRepo{areas: testAreas, release: make(chan struct{})}
	dir := NewAreaDirectory(repo)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := dir.List(firstCtx)
		firstErr <- err
	}()
	for repo.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan []domain.Area, 1)
	go func() {
		areas, err := dir.List(context.Background())
		if err != nil {
			t.Errorf("second caller: %v", err)
		}
		second <- areas
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to see its cancellation, got %v", err)
	}

	close(repo.release)
	if areas := <-second; len(areas) != 2 {
		t.Fatalf("expected shared fetch to complete, got %v", areas)
	}
	if repo.calls.Load() != 1 {
		t.Fatalf("expected one store call, got %d", repo.calls.Load())
	}
}

func TestAreaDirectory_FailureNotCached(t *testing.T) {
	repo := &stubAreaRepo{err: errors.New("offline")}
	dir := NewAreaDirectory(repo)

	if _, err := dir.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	repo.err = nil
	repo.areas = testAreas
	if _, err := dir.List(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if repo.calls.Load() != 2 {
		t.Fatalf("expected a second store call, got %d", repo.calls.Load())
	}
}

func TestAreaDirectory_NameAndClear(t *testing.T) {
	repo := &stubAreaRepo{areas: testAreas}
	dir := NewAreaDirectory(repo)

	name, err := dir.Name(context.Background(), "b2")
	if err != nil || name != "Poblacion" {
		t.Fatalf("expected Poblacion, got %q (%v)", name, err)
	}
	name, _ = dir.Name(context.Background(), "zz")
	if name != UnknownAreaName {
		t.Fatalf("expected %q, got %q", UnknownAreaName, name)
	}

	dir.Clear()
	_, _ = dir.List(context.Background())
	if repo.calls.Load() != 2 {
		t.Fatalf("expected refetch after Clear, got %d calls", repo.calls.Load())
	}
}
