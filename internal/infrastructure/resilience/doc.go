// Package resilience provides a circuit breaker for calls into external
// collaborators.
//
// A Breaker starts closed and admits every call. Consecutive failures trip
// it open, after which calls fail immediately with ErrOpen instead of
// stacking up against a dead dependency. Once the cooldown elapses a bounded
// number of probe calls run; probe successes close the breaker, a probe
// failure reopens it.
//
// Usage:
//
//	breaker := resilience.NewBreaker("recon-backend",
//		resilience.TripAfter(3),
//		resilience.Cooldown(30*time.Second),
//	)
//
//	err := breaker.Do(func() error {
//		return client.Call(ctx)
//	})
//
// All methods are safe for concurrent use.
package resilience
