// Package domain contains the core state types and the persistence port.
package domain

import "context"

// Keys used in the key-value store.
const (
	KeyDarkTheme        = "isDark"
	KeyCounterValue     = "counter_value"
	KeyCachedActivities = "cachedActivities"
	KeyCacheTimestamp   = "cacheTimestamp"
	KeyEmail            = "email"
	KeyFullName         = "fullName"
	KeyPassword         = "password"
	KeyRegisteredDate   = "registeredDate"
	KeyLastLogin        = "lastLogin"
)

// Kind identifies the type a key was last written with.
type Kind string

const (
	KindString     Kind = "string"
	KindInt        Kind = "int"
	KindBool       Kind = "bool"
	KindStringList Kind = "stringlist"
)

// KeyValueStore is the port for the local key-value persistence service.
// Get methods report found=false for absent keys. Reading a key written
// with a different kind fails with ErrKindMismatch.
type KeyValueStore interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	GetInt(ctx context.Context, key string) (int64, bool, error)
	SetInt(ctx context.Context, key string, value int64) error
	GetBool(ctx context.Context, key string) (bool, bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	GetStringList(ctx context.Context, key string) ([]string, bool, error)
	SetStringList(ctx context.Context, key string, value []string) error
	Remove(ctx context.Context, key string) error
}
