package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/afex/hystrix-go/hystrix"
)

// ErrCircuitOpen is returned without running the call while a circuit is
// open.
var ErrCircuitOpen = errors.New("circuit open")

// Config is applied to every circuit the first time it is used. Durations
// are in milliseconds.
type Config struct {
	Timeout                int
	MaxConcurrentRequests  int
	RequestVolumeThreshold int
	SleepWindow            int
	ErrorPercentThreshold  int
}

// CircuitBreaker runs calls inside named hystrix circuits. It never retries
// and has no fallback: a failed call fails, an open circuit fails fast.
type CircuitBreaker struct {
	config Config

	mu         sync.Mutex
	configured map[string]bool
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config:     config,
		configured: map[string]bool{},
	}
}

func (cb *CircuitBreaker) configure(circuitName string) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.configured[circuitName] {
		return
	}
	if hystrix.GetCircuitSettings()[circuitName] == nil {
		hystrix.ConfigureCommand(circuitName, hystrix.CommandConfig{
			Timeout:                cb.config.Timeout,
			MaxConcurrentRequests:  cb.config.MaxConcurrentRequests,
			RequestVolumeThreshold: cb.config.RequestVolumeThreshold,
			SleepWindow:            cb.config.SleepWindow,
			ErrorPercentThreshold:  cb.config.ErrorPercentThreshold,
		})
	}
	cb.configured[circuitName] = true
}

// Execute runs fn in circuitName and blocks until it returns, times out or
// ctx is done.
func (cb *CircuitBreaker) Execute(ctx context.Context, circuitName string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("%s: nothing to execute", circuitName)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cb.configure(circuitName)

	err := hystrix.DoC(ctx, circuitName, fn, nil)
	if err == nil {
		return nil
	}
	if errors.Is(err, hystrix.ErrCircuitOpen) {
		return fmt.Errorf("%s: %w", circuitName, ErrCircuitOpen)
	}
	return fmt.Errorf("%s.error: %w", circuitName, err)
}

// IsOpen reports whether calls to circuitName are currently short circuited.
func (cb *CircuitBreaker) IsOpen(circuitName string) bool {
	circuit, _, err := hystrix.GetCircuit(circuitName)
	if err != nil {
		return false
	}
	return circuit.IsOpen()
}
