// Package app holds the state stores and their persistence scheduling.
package app

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const defaultWriteTimeout = 5 * time.Second

// Option configures a store.
type Option func(*options)

type options struct {
	log          zerolog.Logger
	now          func() time.Time
	writeTimeout time.Duration
	passwordCost int
}

func newOptions(opts []Option) options {
	o := options{
		log:          zerolog.Nop(),
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithWriteTimeout bounds each scheduled persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithPasswordCost sets the bcrypt cost used on registration.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
