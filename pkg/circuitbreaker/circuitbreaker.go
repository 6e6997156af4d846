// Package circuitbreaker builds the breakers guarding the calls the daemon
// makes to external services, the Chia node RPC and the webhook endpoints.
package circuitbreaker

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Settings tunes when a breaker opens and for how long.
type Settings struct {
	// MinRequests is the number of requests observed before the failure
	// ratio is taken into account.
	MinRequests uint32
	// FailureRatio opens the breaker once reached.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before letting a probe
	// request through.
	OpenTimeout time.Duration
}

// DefaultSettings are those used by NewCircuitBreaker.
var DefaultSettings = Settings{
	MinRequests:  10,
	FailureRatio: 0.6,
	OpenTimeout:  30 * time.Second,
}

// NewCircuitBreaker returns a breaker with the default settings.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return New(name, DefaultSettings)
}

// New returns a breaker that opens when more than MinRequests requests were
// made in the current window and at least FailureRatio of them failed.
func New(name string, settings Settings) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests <= settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Warnf("circuit breaker %s opened, calls are rejected for a while", name)
				return
			}
			log.Debugf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// IsOpen returns whether err comes from a breaker rejecting the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}
