package scroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakePage replays a fixed list of signals, repeating the last one.
type fakePage struct {
	signals   []int
	scrolls   int
	reads     int
	scrollErr error
	onRead    func()
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.scrolls++
	return p.scrollErr
}

func (p *fakePage) Progress(ctx context.Context) (int, error) {
	p.reads++
	if p.onRead != nil {
		p.onRead()
	}
	if len(p.signals) == 0 {
		return 0, nil
	}
	i := min(p.reads, len(p.signals)) - 1
	return p.signals[i], nil
}

// growing returns k strictly increasing signals.
func growing(k int) []int {
	s := make([]int, k)
	for i := range s {
		s[i] = (i + 1) * 10
	}
	return s
}

func TestLoop_ConvergesAtKPlusThreshold(t *testing.T) {
	tests := []struct {
		name      string
		k         int
		threshold int
	}{
		{"no growth", 0, 3},
		{"one change", 1, 3},
		{"several changes", 7, 5},
		{"threshold one", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &fakePage{signals: growing(tt.k)}
			loop := NewLoop(Config{MaxPolls: 100, StagnationThreshold: tt.threshold})

			res, err := loop.Run(context.Background(), page)
			require.NoError(t, err)
			require.Equal(t, Converged, res.Outcome)
			require.Equal(t, tt.k+tt.threshold, res.Polls)
			require.Equal(t, tt.threshold, res.Stagnant)
			require.Equal(t, res.Polls, page.scrolls)
		})
	}
}

func TestLoop_ForcedStop(t *testing.T) {
	page := &fakePage{signals: growing(50)}
	loop := NewLoop(Config{MaxPolls: 10, StagnationThreshold: 3})

	res, err := loop.Run(context.Background(), page)
	require.NoError(t, err)
	require.Equal(t, ForcedStop, res.Outcome)
	require.Equal(t, 10, res.Polls)
	require.Equal(t, 100, res.Signal)
}

func TestLoop_ConvergenceWinsOnLastPoll(t *testing.T) {
	page := &fakePage{signals: growing(2)}
	loop := NewLoop(Config{MaxPolls: 5, StagnationThreshold: 3})

	res, err := loop.Run(context.Background(), page)
	require.NoError(t, err)
	require.Equal(t, Converged, res.Outcome)
	require.Equal(t, 5, res.Polls)
}

func TestLoop_StagnationResets(t *testing.T) {
	page := &fakePage{signals: []int{5, 5, 9, 9, 9, 9}}
	loop := NewLoop(Config{MaxPolls: 100, StagnationThreshold: 3})

	var seen []Result
	loop.OnPoll = func(r Result) { seen = append(seen, r) }

	res, err := loop.Run(context.Background(), page)
	require.NoError(t, err)
	require.Equal(t, 6, res.Polls)

	stagnant := make([]int, len(seen))
	for i, r := range seen {
		stagnant[i] = r.Stagnant
	}
	require.Equal(t, []int{0, 1, 0, 1, 2, 3}, stagnant)
	require.Equal(t, Converged, seen[len(seen)-1].Outcome)
	require.Equal(t, Running, seen[0].Outcome)
}

func TestLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	page := &fakePage{signals: growing(100)}
	page.onRead = func() {
		if page.reads == 2 {
			cancel()
		}
	}
	loop := NewLoop(Config{Delay: time.Millisecond, MaxPolls: 100, StagnationThreshold: 3})

	res, err := loop.Run(ctx, page)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, res.Polls)
}

func TestLoop_PageError(t *testing.T) {
	boom := errors.New("target closed")
	page := &fakePage{scrollErr: boom}
	loop := NewLoop(Config{MaxPolls: 10, StagnationThreshold: 3})

	_, err := loop.Run(context.Background(), page)
	require.ErrorIs(t, err, boom)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	err := Config{Delay: -time.Second}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "delay")
	require.Contains(t, err.Error(), "max polls")
	require.Contains(t, err.Error(), "stagnation threshold")
}
