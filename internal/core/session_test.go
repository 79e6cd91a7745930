package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(ttl time.Duration, max int) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessionStore(ttl, max)
	s.now = clock.now
	return s, clock
}

func testUpload(t *testing.T, name string) *Upload {
	t.Helper()
	u, err := NewUpload(name, []byte("data"))
	if err != nil {
		t.Fatalf("NewUpload(%q): %v", name, err)
	}
	return u
}

func TestSessionStore_CreateGetReplace(t *testing.T) {
	store, _ := newTestStore(time.Minute, 10)

	first := testUpload(t, "a.xlsx")
	sess := store.Create(first)
	if sess.ID == "" {
		t.Fatal("Create returned empty id")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Upload != first {
		t.Error("Get returned a different upload")
	}

	second := testUpload(t, "b.xls")
	if _, err := store.Replace(sess.ID, second); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, _ = store.Get(sess.ID)
	if got.Upload != second {
		t.Error("Replace did not swap the upload")
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestSessionStore_UnknownAndMalformedIDs(t *testing.T) {
	store, _ := newTestStore(time.Minute, 10)

	for _, id := range []string{"", "not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		if _, err := store.Get(id); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Get(%q) error = %v, want session not found", id, err)
		}
		if _, err := store.Replace(id, testUpload(t, "x.xlsx")); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Replace(%q) error = %v, want session not found", id, err)
		}
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, clock := newTestStore(10*time.Minute, 10)

	sess := store.Create(testUpload(t, "a.xlsx"))

	clock.advance(9 * time.Minute)
	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	// Get refreshed the idle timer.
	clock.advance(9 * time.Minute)
	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}

	clock.advance(11 * time.Minute)
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after expiry error = %v, want session not found", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be dropped on access, Len = %d", store.Len())
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	store, clock := newTestStore(5*time.Minute, 10)

	old := store.Create(testUpload(t, "old.xlsx"))
	clock.advance(4 * time.Minute)
	fresh := store.Create(testUpload(t, "fresh.xlsx"))
	clock.advance(2 * time.Minute)

	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, err := store.Get(old.ID); err == nil {
		t.Error("old session should have been swept")
	}
	if _, err := store.Get(fresh.ID); err != nil {
		t.Errorf("fresh session should remain: %v", err)
	}
}

func TestSessionStore_EvictsOldestWhenFull(t *testing.T) {
	store, clock := newTestStore(time.Hour, 2)

	a := store.Create(testUpload(t, "a.xlsx"))
	clock.advance(time.Second)
	b := store.Create(testUpload(t, "b.xlsx"))
	clock.advance(time.Second)

	// Touch a so b becomes the least recently used.
	if _, err := store.Get(a.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clock.advance(time.Second)
	c := store.Create(testUpload(t, "c.xlsx"))

	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
	if _, err := store.Get(b.ID); err == nil {
		t.Error("b should have been evicted")
	}
	for _, id := range []string{a.ID, c.ID} {
		if _, err := store.Get(id); err != nil {
			t.Errorf("session %s should remain: %v", id, err)
		}
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Minute, 10)
	sess := store.Create(testUpload(t, "a.xlsx"))

	if !store.Delete(sess.ID) {
		t.Error("Delete of existing session returned false")
	}
	if store.Delete(sess.ID) {
		t.Error("second Delete returned true")
	}
}

func TestSessionStore_RunStopsOnCancel(t *testing.T) {
	store, _ := newTestStore(time.Minute, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
