package prethrift

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkBuckets cover the embedded client's latency spread: sub-millisecond
// cache hits and redis round-trips up to multi-second embedding provider
// calls during ingestion.
var sdkBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// observer reports finished SDK operations to the configured slog logger
// and, when a registry was supplied, to prometheus. A nil observer is
// valid and silent.
type observer struct {
	logger     *slog.Logger
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	o.operations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prethrift",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "Total SDK operations by type and status.",
	}, []string{"operation", "status"})
	o.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prethrift",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK operation duration in seconds.",
		Buckets:   sdkBuckets,
	}, []string{"operation"})

	if err := registerOrReuse(reg, &o.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &o.duration); err != nil {
		return nil, err
	}
	return o, nil
}

// registerOrReuse registers a collector, adopting an already registered
// identical one so two clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("prethrift: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("prethrift: register metric: %w", err)
	}
	return nil
}

// observe records one finished operation. Safe on a nil observer so
// call sites can defer unconditionally.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)

	if o.operations != nil {
		o.operations.WithLabelValues(op, statusLabel(err)).Inc()
		o.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}

	switch {
	case o.logger == nil:
	case err != nil:
		o.logger.Warn("prethrift operation failed",
			"operation", op,
			"elapsed", elapsed,
			"error", err,
		)
	default:
		o.logger.Debug("prethrift operation done",
			"operation", op,
			"elapsed", elapsed,
		)
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
