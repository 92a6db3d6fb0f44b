// Package metrics exports registry activity to Prometheus.
package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sghaida/locator/di"
)

// PromObserver records registry events in Prometheus metrics. It implements
// di.Observer.
type PromObserver struct {
	registrations *prometheus.CounterVec
	removals      *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	constructions *prometheus.CounterVec
}

var _ di.Observer = (*PromObserver)(nil)

// NewPromObserver registers the registry metrics on the default Prometheus registerer.
func NewPromObserver() (*PromObserver, error) {
	return NewPromObserverWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromObserverWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier observer are reused.
func NewPromObserverWithRegistry(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_registrations_total",
		Help: "Total number of capability registrations",
	}, []string{"key", "lifecycle", "replaced"})
	removals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_unregistrations_total",
		Help: "Total number of capability removals",
	}, []string{"key"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_resolutions_total",
		Help: "Total number of capability resolutions by outcome",
	}, []string{"key", "outcome"})
	constructions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_constructions_total",
		Help: "Total number of provider factory invocations",
	}, []string{"key", "lifecycle"})

	var err error
	if registrations, err = register(reg, registrations); err != nil {
		return nil, err
	}
	if removals, err = register(reg, removals); err != nil {
		return nil, err
	}
	if resolutions, err = register(reg, resolutions); err != nil {
		return nil, err
	}
	if constructions, err = register(reg, constructions); err != nil {
		return nil, err
	}

	return &PromObserver{
		registrations: registrations,
		removals:      removals,
		resolutions:   resolutions,
		constructions: constructions,
	}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// Registered counts a registration.
func (o *PromObserver) Registered(key string, lc di.Lifecycle, replaced bool) {
	o.registrations.WithLabelValues(key, lc.String(), strconv.FormatBool(replaced)).Inc()
}

// Unregistered counts a removal.
func (o *PromObserver) Unregistered(key string) {
	o.removals.WithLabelValues(key).Inc()
}

// Resolved counts a successful resolution, and a construction when the factory ran.
func (o *PromObserver) Resolved(key string, lc di.Lifecycle, constructed bool) {
	o.resolutions.WithLabelValues(key, "ok").Inc()
	if constructed {
		o.constructions.WithLabelValues(key, lc.String()).Inc()
	}
}

// Failed counts a failed resolution labelled with the failure kind.
func (o *PromObserver) Failed(key string, err error) {
	o.resolutions.WithLabelValues(key, Outcome(err)).Inc()
}

// Outcome maps a resolution error to a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, di.ErrUnregisteredCapability):
		return "unregistered"
	case errors.Is(err, di.ErrProviderPanic):
		return "panic"
	default:
		return "error"
	}
}
