package timesource

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scripted answers queries in order.
type scripted struct {
	mu        sync.Mutex
	responses []queryResponse
	calls     int
}

func (s *scripted) query(string) (*ntp.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.responses[s.calls%len(s.responses)]
	s.calls++
	return &ntp.Response{ClockOffset: r.Offset}, r.Error
}

func TestComputeOffset(t *testing.T) {
	for _, tc := range []struct {
		name      string
		responses []queryResponse
		expected  time.Duration
		fails     bool
	}{
		{
			name:      "same",
			responses: []queryResponse{{Offset: 10 * time.Second}, {Offset: 10 * time.Second}, {Offset: 10 * time.Second}},
			expected:  10 * time.Second,
		},
		{
			name:      "median",
			responses: []queryResponse{{Offset: 10 * time.Second}, {Offset: 30 * time.Second}, {Offset: 20 * time.Second}},
			expected:  20 * time.Second,
		},
		{
			name:      "negative",
			responses: []queryResponse{{Offset: -3 * time.Second}, {Offset: -1 * time.Second}, {Offset: -2 * time.Second}},
			expected:  -2 * time.Second,
		},
		{
			name:      "one failure",
			responses: []queryResponse{{Offset: time.Second}, {Error: errors.New("timeout")}, {Offset: time.Second}},
			fails:     true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &scripted{responses: tc.responses}
			offset, err := computeOffset(s.query, "ntp", len(tc.responses))
			if tc.fails {
				require.Error(t, err)
				require.Contains(t, err.Error(), "timeout")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, offset)
			require.Equal(t, len(tc.responses), s.calls)
		})
	}
}

func TestComputeOffsetNoAttempts(t *testing.T) {
	_, err := computeOffset((&scripted{}).query, "ntp", 0)
	require.ErrorIs(t, err, ErrNoResponses)
}

func newTestSource(responses []queryResponse) *NTPTimeSource {
	return &NTPTimeSource{
		server:       "ntp",
		attempts:     len(responses),
		updatePeriod: time.Hour,
		query:        (&scripted{responses: responses}).query,
		logger:       zap.NewNop(),
	}
}

func TestNowAppliesOffset(t *testing.T) {
	s := newTestSource([]queryResponse{{Offset: time.Hour}, {Offset: time.Hour}, {Offset: time.Hour}})
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Equal(t, time.Hour, s.Offset())
	require.WithinDuration(t, time.Now().Add(time.Hour), s.Now(), time.Second)
}

func TestStartKeepsZeroOffsetOnFailure(t *testing.T) {
	s := newTestSource([]queryResponse{{Error: errors.New("unreachable")}})
	require.Error(t, s.Start())
	defer s.Stop()

	require.Zero(t, s.Offset())
	require.WithinDuration(t, time.Now(), s.Now(), time.Second)
}

func TestStartTwice(t *testing.T) {
	s := newTestSource([]queryResponse{{Offset: time.Second}})
	require.NoError(t, s.Start())
	require.Error(t, s.Start())
	s.Stop()
	s.Stop()
}
