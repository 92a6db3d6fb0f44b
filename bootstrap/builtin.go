package bootstrap

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Builtin provider names.
const (
	SystemClockProvider  = "system-clock"
	UUIDTokenProvider    = "uuid-token"
	CounterProvider      = "counter"
	StaticStringProvider = "static-string"
)

// Clock tells the time.
type Clock interface {
	Now() time.Time
}

// Token is an opaque identifier. Bound transient, every resolution yields a
// new one; bound singleton, it is fixed for the registry's lifetime.
type Token string

// Counter is a monotonically increasing counter shared by its resolvers.
type Counter struct {
	n atomic.Int64
}

// Next increments the counter and returns the new value.
func (c *Counter) Next() int64 { return c.n.Add(1) }

// Value returns the current value.
func (c *Counter) Value() int64 { return c.n.Load() }

type systemClock struct{ loc *time.Location }

func (c *systemClock) Now() time.Time { return time.Now().In(c.loc) }

type clockParams struct {
	// Location is an IANA zone name; empty means local time.
	Location string `json:"location"`
}

func newSystemClock(params map[string]any) (func() Clock, error) {
	var p clockParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	loc := time.Local
	if p.Location != "" {
		l, err := time.LoadLocation(p.Location)
		if err != nil {
			return nil, fmt.Errorf("location: %w", err)
		}
		loc = l
	}
	return func() Clock { return &systemClock{loc: loc} }, nil
}

type tokenParams struct {
	Prefix string `json:"prefix"`
}

func newUUIDToken(params map[string]any) (func() Token, error) {
	var p tokenParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return func() Token { return Token(p.Prefix + uuid.NewString()) }, nil
}

type counterParams struct {
	Start int64 `json:"start"`
}

func newCounter(params map[string]any) (func() *Counter, error) {
	var p counterParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return func() *Counter {
		c := &Counter{}
		c.n.Store(p.Start)
		return c
	}, nil
}

type staticStringParams struct {
	Value *string `json:"value"`
}

func newStaticString(params map[string]any) (func() string, error) {
	var p staticStringParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Value == nil {
		return nil, errors.New("params: value is required")
	}
	v := *p.Value
	return func() string { return v }, nil
}

// Builtin returns a catalog holding the builtin providers.
func Builtin() *Catalog {
	return NewCatalog().
		MustAdd(SystemClockProvider, Provider(newSystemClock)).
		MustAdd(UUIDTokenProvider, Provider(newUUIDToken)).
		MustAdd(CounterProvider, Provider(newCounter)).
		MustAdd(StaticStringProvider, Provider(newStaticString))
}
