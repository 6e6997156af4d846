package circuitbreaker_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dtrex-network/dtrex-daemon/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

var failure = errors.New("boom")

func fail() (interface{}, error) { return nil, failure }
func succeed() (interface{}, error) { return nil, nil }

func TestCircuitBreakerTrips(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("test")

	for i := 0; i <= int(circuitbreaker.DefaultSettings.MinRequests); i++ {
		_, err := cb.Execute(fail)
		require.ErrorIs(t, err, failure)
		require.False(t, circuitbreaker.IsOpen(err))
	}

	_, err := cb.Execute(succeed)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.True(t, circuitbreaker.IsOpen(err))
	require.True(t, circuitbreaker.IsOpen(fmt.Errorf("rpc: %w", err)))
	require.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestCircuitBreakerBelowRatio(t *testing.T) {
	cb := circuitbreaker.New("test", circuitbreaker.Settings{
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	})

	// 1 failure out of 4 requests keeps the breaker closed.
	for _, fn := range []func() (interface{}, error){succeed, succeed, fail, succeed} {
		cb.Execute(fn)
	}
	require.Equal(t, gobreaker.StateClosed, cb.State())

	// 3 failures out of 6 open it.
	cb.Execute(fail)
	cb.Execute(fail)
	require.Equal(t, gobreaker.StateOpen, cb.State())
}
