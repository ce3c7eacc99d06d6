package timesource

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/status-im/nft-market/common"
	"github.com/status-im/nft-market/logutils"
)

const (
	// DefaultServer resolves to a different pool member on most queries.
	DefaultServer = "pool.ntp.org"

	DefaultAttempts = 3

	DefaultUpdatePeriod = 10 * time.Minute
)

var ErrNoResponses = errors.New("no ntp responses")

type ntpQuery func(host string) (*ntp.Response, error)

type queryResponse struct {
	Offset time.Duration
	Error  error
}

// computeOffset queries server attempts times in parallel and returns the
// median offset. A single failed query fails the round.
func computeOffset(query ntpQuery, server string, attempts int) (time.Duration, error) {
	if attempts <= 0 {
		return 0, ErrNoResponses
	}
	responses := make(chan queryResponse, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer common.LogOnPanic()
			response, err := query(server)
			if err != nil {
				responses <- queryResponse{Error: err}
				return
			}
			responses <- queryResponse{Offset: response.ClockOffset}
		}()
	}

	var (
		failed  error
		offsets []time.Duration
	)
	for i := 0; i < attempts; i++ {
		response := <-responses
		if response.Error != nil {
			failed = multierr.Append(failed, response.Error)
			continue
		}
		offsets = append(offsets, response.Offset)
	}
	if failed != nil {
		return 0, fmt.Errorf("ntp queries to %s failed: %w", server, failed)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets[len(offsets)/2], nil
}

// NTPTimeSource is a clock corrected by the offset to an NTP server. Order
// validity windows are checked against block timestamps, so a skewed local
// clock produces listings that are not active yet or already expired.
type NTPTimeSource struct {
	server       string
	attempts     int
	updatePeriod time.Duration
	query        ntpQuery

	quit chan struct{}
	wg   sync.WaitGroup

	mu     sync.RWMutex
	offset time.Duration

	logger *zap.Logger
}

func New(server string) *NTPTimeSource {
	return &NTPTimeSource{
		server:       server,
		attempts:     DefaultAttempts,
		updatePeriod: DefaultUpdatePeriod,
		query:        ntp.Query,
		logger:       logutils.ZapLogger().Named("TimeSource"),
	}
}

// Now returns local time adjusted by the latest known offset.
func (s *NTPTimeSource) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Now().Add(s.offset)
}

func (s *NTPTimeSource) Offset() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

func (s *NTPTimeSource) updateOffset() error {
	offset, err := computeOffset(s.query, s.server, s.attempts)
	if err != nil {
		s.logger.Warn("failed to compute clock offset", zap.String("server", s.server), zap.Error(err))
		return err
	}
	s.logger.Info("clock offset updated", zap.Duration("offset", offset))
	s.mu.Lock()
	s.offset = offset
	s.mu.Unlock()
	return nil
}

// Start computes the offset once, synchronously, then keeps refreshing it
// every update period until Stop. A failed first round is returned but the
// refresh loop still runs.
func (s *NTPTimeSource) Start() error {
	if s.quit != nil {
		return fmt.Errorf("time source already started")
	}
	s.quit = make(chan struct{})
	err := s.updateOffset()

	s.wg.Add(1)
	go func() {
		defer common.LogOnPanic()
		defer s.wg.Done()
		ticker := time.NewTicker(s.updatePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = s.updateOffset()
			case <-s.quit:
				return
			}
		}
	}()
	return err
}

func (s *NTPTimeSource) Stop() {
	if s.quit == nil {
		return
	}
	close(s.quit)
	s.wg.Wait()
	s.quit = nil
}
