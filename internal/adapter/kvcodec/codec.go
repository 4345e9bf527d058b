// Package kvcodec maps typed key-value operations onto backends that store
// every value as text next to its kind.
package kvcodec

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"tracker/internal/domain"
)

// Entry is a single stored key.
type Entry struct {
	Key   string
	Kind  domain.Kind
	Value string
}

// Raw is implemented by backends that persist entries as text.
type Raw interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Save(ctx context.Context, e Entry) error
	Delete(ctx context.Context, key string) error
}

// Typed implements domain.KeyValueStore on top of a Raw backend.
type Typed struct {
	Raw Raw
}

var _ domain.KeyValueStore = Typed{}

func (t Typed) load(ctx context.Context, key string, kind domain.Kind) (Entry, bool, error) {
	e, ok, err := t.Raw.Load(ctx, key)
	if err != nil {
		return Entry{}, false, fmt.Errorf("load %q: %w", key, err)
	}
	if !ok {
		return Entry{}, false, nil
	}
	if e.Kind != kind {
		return Entry{}, false, fmt.Errorf("%w: %q holds %s, want %s", domain.ErrKindMismatch, key, e.Kind, kind)
	}
	return e, true, nil
}

func (t Typed) save(ctx context.Context, key string, kind domain.Kind, value string) error {
	if err := t.Raw.Save(ctx, Entry{Key: key, Kind: kind, Value: value}); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// GetString returns the string stored under key.
func (t Typed) GetString(ctx context.Context, key string) (string, bool, error) {
	e, ok, err := t.load(ctx, key, domain.KindString)
	if err != nil || !ok {
		return "", false, err
	}
	return e.Value, true, nil
}

// SetString stores a string under key.
func (t Typed) SetString(ctx context.Context, key, value string) error {
	return t.save(ctx, key, domain.KindString, value)
}

// GetInt returns the integer stored under key.
func (t Typed) GetInt(ctx context.Context, key string) (int64, bool, error) {
	e, ok, err := t.load(ctx, key, domain.KindInt)
	if err != nil || !ok {
		return 0, false, err
	}
	n, err := strconv.ParseInt(e.Value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return n, true, nil
}

// SetInt stores an integer under key.
func (t Typed) SetInt(ctx context.Context, key string, value int64) error {
	return t.save(ctx, key, domain.KindInt, strconv.FormatInt(value, 10))
}

// GetBool returns the boolean stored under key.
func (t Typed) GetBool(ctx context.Context, key string) (bool, bool, error) {
	e, ok, err := t.load(ctx, key, domain.KindBool)
	if err != nil || !ok {
		return false, false, err
	}
	b, err := strconv.ParseBool(e.Value)
	if err != nil {
		return false, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return b, true, nil
}

// SetBool stores a boolean under key.
func (t Typed) SetBool(ctx context.Context, key string, value bool) error {
	return t.save(ctx, key, domain.KindBool, strconv.FormatBool(value))
}

// GetStringList returns the ordered list stored under key.
func (t Typed) GetStringList(ctx context.Context, key string) ([]string, bool, error) {
	e, ok, err := t.load(ctx, key, domain.KindStringList)
	if err != nil || !ok {
		return nil, false, err
	}
	var list []string
	if err := json.Unmarshal([]byte(e.Value), &list); err != nil {
		return nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	if list == nil {
		list = []string{}
	}
	return list, true, nil
}

// SetStringList stores an ordered list under key.
func (t Typed) SetStringList(ctx context.Context, key string, value []string) error {
	if value == nil {
		value = []string{}
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return t.save(ctx, key, domain.KindStringList, string(b))
}

// Remove deletes key. Removing an absent key is not an error.
func (t Typed) Remove(ctx context.Context, key string) error {
	if err := t.Raw.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
