package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 50 * time.Millisecond

func newWatchedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "band.yaml")
	if err := os.WriteFile(path, []byte("name: band\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func expectEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("channel closed before event")
		}
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func expectQuiet(t *testing.T, events <-chan Event, d time.Duration) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(d):
	}
}

func TestNewMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteEmitsOneEvent(t *testing.T) {
	path := newWatchedFile(t)
	w, err := New(path, WithDebounce(testDebounce))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("name: changed\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ev := expectEvent(t, events)
	if ev.Path != w.Path() || ev.Time.IsZero() {
		t.Errorf("unexpected event: %+v", ev)
	}
	expectQuiet(t, events, 4*testDebounce)
}

func TestRenameIntoPlace(t *testing.T) {
	path := newWatchedFile(t)
	w, err := New(path, WithDebounce(testDebounce))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("name: renamed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	expectEvent(t, events)
}

func TestIgnoresSiblings(t *testing.T) {
	path := newWatchedFile(t)
	w, err := New(path, WithDebounce(testDebounce))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}

	sibling := filepath.Join(filepath.Dir(path), "other.yaml")
	if err := os.WriteFile(sibling, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectQuiet(t, events, 4*testDebounce)
}

func TestCancelClosesChannel(t *testing.T) {
	w, err := New(newWatchedFile(t))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
