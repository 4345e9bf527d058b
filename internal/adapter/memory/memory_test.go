package memory

import (
	"context"
	"testing"

	"tracker/internal/domain"
)

func TestStringValues(t *testing.T) {
	db := New()
	ctx := context.Background()

	if err := db.SetString(ctx, domain.KeyEmail, "ana@mail.com"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	v, ok, err := db.GetString(ctx, domain.KeyEmail)
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if !ok || v != "ana@mail.com" {
		t.Errorf("expected ana@mail.com, got %q (found=%v)", v, ok)
	}

	// Overwrite
	_ = db.SetString(ctx, domain.KeyEmail, "bob@mail.com")
	v, _, _ = db.GetString(ctx, domain.KeyEmail)
	if v != "bob@mail.com" {
		t.Errorf("expected overwrite, got %q", v)
	}

	if err := db.Remove(ctx, domain.KeyEmail); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, ok, _ = db.GetString(ctx, domain.KeyEmail)
	if ok {
		t.Error("expected key to be removed")
	}
}

func TestIntAndBoolValues(t *testing.T) {
	db := New()
	ctx := context.Background()

	_ = db.SetInt(ctx, domain.KeyCounterValue, 7)
	_ = db.SetBool(ctx, domain.KeyDarkTheme, true)

	n, ok, err := db.GetInt(ctx, domain.KeyCounterValue)
	if err != nil || !ok || n != 7 {
		t.Errorf("expected 7, got %d (found=%v, err=%v)", n, ok, err)
	}
	b, ok, err := db.GetBool(ctx, domain.KeyDarkTheme)
	if err != nil || !ok || !b {
		t.Errorf("expected true, got %v (found=%v, err=%v)", b, ok, err)
	}

	// Wrong kind
	if _, _, err := db.GetString(ctx, domain.KeyCounterValue); err == nil {
		t.Error("expected kind mismatch error")
	}
}

func TestStringListValues(t *testing.T) {
	db := New()
	ctx := context.Background()

	in := []string{`{"text":"Buy milk","done":false}`, `{"text":"Run","done":true}`}
	if err := db.SetStringList(ctx, domain.KeyCachedActivities, in); err != nil {
		t.Fatalf("SetStringList: %v", err)
	}

	// Mutating the caller's slice must not affect stored data.
	in[0] = "changed"

	out, ok, err := db.GetStringList(ctx, domain.KeyCachedActivities)
	if err != nil {
		t.Fatalf("GetStringList: %v", err)
	}
	if !ok || len(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out))
	}
	if out[0] != `{"text":"Buy milk","done":false}` {
		t.Errorf("unexpected first entry %q", out[0])
	}
}

func TestKeys(t *testing.T) {
	db := New()
	ctx := context.Background()
	_ = db.SetString(ctx, "b", "1")
	_ = db.SetString(ctx, "a", "2")

	keys := db.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestCancelledContext(t *testing.T) {
	db := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := db.SetString(ctx, "k", "v"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
