package holdings

import (
	"context"
	"errors"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// CircuitBreakerSettings configures CircuitBreakerSource's underlying
// gobreaker.CircuitBreaker.
type CircuitBreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultCircuitBreakerSettings mirrors the teacher's broker defaults,
// tuned for a once-per-underlying holdings fetch rather than a high-volume
// order API.
func DefaultCircuitBreakerSettings() CircuitBreakerSettings {
	return CircuitBreakerSettings{
		MaxRequests:  3,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerSource wraps a Source so repeated failures trip the circuit
// and fail fast instead of hammering whatever the wrapped Source talks to.
type CircuitBreakerSource struct {
	source  Source
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewCircuitBreakerSource wraps source with DefaultCircuitBreakerSettings.
func NewCircuitBreakerSource(source Source, log *logrus.Logger) *CircuitBreakerSource {
	return NewCircuitBreakerSourceWithSettings(source, DefaultCircuitBreakerSettings(), log)
}

// NewCircuitBreakerSourceWithSettings wraps source with custom settings.
func NewCircuitBreakerSourceWithSettings(source Source, settings CircuitBreakerSettings, log *logrus.Logger) *CircuitBreakerSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	gbSettings := gobreaker.Settings{
		Name:        "HoldingsSourceCircuitBreaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("circuit breaker state changed")
		},
	}
	return &CircuitBreakerSource{
		source:  source,
		breaker: gobreaker.NewCircuitBreaker(gbSettings),
		log:     log,
	}
}

// Holdings implements Source, routing the call through the circuit breaker.
func (c *CircuitBreakerSource) Holdings(ctx context.Context, underlying string) ([]models.OptionPosition, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.source.Holdings(ctx, underlying)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			c.log.WithField("underlying", underlying).Warn("holdings source circuit open, failing fast")
		}
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	positions, ok := res.([]models.OptionPosition)
	if !ok {
		return nil, errors.New("holdings: circuit breaker type assertion failed")
	}
	return positions, nil
}
