package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRecordCopiesAttrs(t *testing.T) {
	src := map[string]any{"name": "wordpress"}
	rec := NewRecord("cs:precise/wordpress-15", src)
	src["name"] = "changed"

	if got := rec.Get("name"); got != "wordpress" {
		t.Errorf("Get(name) = %v, want wordpress", got)
	}
	if rec.ID() != "cs:precise/wordpress-15" {
		t.Errorf("ID() = %q", rec.ID())
	}
}

func TestAttrsIsSnapshot(t *testing.T) {
	rec := NewRecord("r", map[string]any{"a": 1})
	snap := rec.Attrs()
	snap["a"] = 2
	if rec.Get("a") != 1 {
		t.Error("mutating the snapshot should not affect the record")
	}
}

func TestSetNotifiesOnChange(t *testing.T) {
	rec := NewRecord("r", map[string]any{"a": 1})

	var got []Change
	cancel := rec.Subscribe(func(ch Change) { got = append(got, ch) })
	defer cancel()

	rec.Set("a", 1) // unchanged
	rec.Set("a", 2)
	rec.SetAttrs(map[string]any{"a": 2, "b": "x"})

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if diff := cmp.Diff(map[string]Delta{"a": {Prev: 1, Next: 2}}, got[0].Changed); diff != "" {
		t.Errorf("first change mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, got[1].Keys()); diff != "" {
		t.Errorf("second change keys mismatch (-want +got):\n%s", diff)
	}
	if got[1].Source != Model(rec) {
		t.Error("change should carry its source record")
	}
}

func TestUnset(t *testing.T) {
	rec := NewRecord("r", map[string]any{"a": 1})
	var keys []string
	rec.Subscribe(func(ch Change) { keys = append(keys, ch.Keys()...) })

	rec.Unset("a")
	rec.Unset("a")

	if diff := cmp.Diff([]string{"a"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if rec.Get("a") != nil {
		t.Error("a should be gone")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	rec := NewRecord("r", nil)
	calls := 0
	cancel := rec.Subscribe(func(Change) { calls++ })
	other := rec.Subscribe(func(Change) {})

	cancel()
	cancel()
	if rec.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", rec.Subscribers())
	}

	rec.Set("a", 1)
	if calls != 0 {
		t.Errorf("cancelled subscriber called %d times", calls)
	}
	other()
	if rec.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", rec.Subscribers())
	}
}

func TestCancelDuringNotify(t *testing.T) {
	rec := NewRecord("r", nil)
	var cancel func()
	calls := 0
	cancel = rec.Subscribe(func(Change) {
		calls++
		cancel()
	})

	rec.Set("a", 1)
	rec.Set("a", 2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithEquals(t *testing.T) {
	rec := NewRecord("r", map[string]any{"a": 1}).WithEquals(func(a, b any) bool { return false })
	n := 0
	rec.Subscribe(func(Change) { n++ })
	rec.Set("a", 1)
	if n != 1 {
		t.Errorf("custom equality should force a notification, got %d", n)
	}
}
