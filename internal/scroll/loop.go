package scroll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Page is a document that grows as it is scrolled.
type Page interface {
	// ScrollToBottom moves the viewport to the maximum scroll offset.
	ScrollToBottom(ctx context.Context) error

	// Progress returns the current load-progress signal, such as the number
	// of distinct songs in the document or its scroll height.
	Progress(ctx context.Context) (int, error)
}

// Config tunes the loop.
type Config struct {
	// Delay is the wait before every poll, giving lazy content time to render.
	Delay time.Duration

	// MaxPolls caps the number of polls. Reaching it ends the loop with ForcedStop.
	MaxPolls int

	// StagnationThreshold is the number of consecutive unchanged polls that
	// counts as converged.
	StagnationThreshold int
}

// DefaultConfig returns a two second delay, 500 polls and a threshold of 5.
func DefaultConfig() Config {
	return Config{
		Delay:               2 * time.Second,
		MaxPolls:            500,
		StagnationThreshold: 5,
	}
}

// Validate reports configuration values the loop cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("scroll delay must not be negative, got %s", c.Delay))
	}
	if c.MaxPolls < 1 {
		errs = append(errs, fmt.Errorf("max polls must be at least 1, got %d", c.MaxPolls))
	}
	if c.StagnationThreshold < 1 {
		errs = append(errs, fmt.Errorf("stagnation threshold must be at least 1, got %d", c.StagnationThreshold))
	}
	return errors.Join(errs...)
}

// Outcome is the terminal state of a loop run.
type Outcome int

const (
	// Running is reported by OnPoll while the loop has not terminated yet.
	Running Outcome = iota

	// Converged means the signal stopped changing for StagnationThreshold polls.
	Converged

	// ForcedStop means MaxPolls was reached first. Loading may be incomplete.
	ForcedStop
)

func (o Outcome) String() string {
	switch o {
	case Converged:
		return "converged"
	case ForcedStop:
		return "forced stop"
	default:
		return "running"
	}
}

// Result describes the loop state after a poll.
type Result struct {
	Outcome Outcome

	// Polls is the number of polls performed so far.
	Polls int

	// Signal is the most recent progress signal.
	Signal int

	// Stagnant is the number of consecutive polls without a signal change.
	Stagnant int
}

// Loop drives a Page until its content stops growing.
type Loop struct {
	cfg Config

	// OnPoll, when set, is called after every poll including the final one.
	OnPoll func(Result)
}

// NewLoop creates a Loop. cfg should pass Validate.
func NewLoop(cfg Config) *Loop {
	return &Loop{cfg: cfg}
}

// Config returns the loop configuration.
func (l *Loop) Config() Config {
	return l.cfg
}

// Run scrolls page until the progress signal has been unchanged for
// StagnationThreshold consecutive polls or MaxPolls polls have run.
//
// The signal is compared against zero on the first poll, so a page whose
// signal is zero from the start converges after exactly StagnationThreshold
// polls. A signal that changes on polls 1..k and then holds terminates on
// poll k + StagnationThreshold.
//
// Cancelling ctx stops the loop and returns ctx.Err(). A failing page call
// aborts the loop with that error; the returned Result reflects the last
// completed poll.
func (l *Loop) Run(ctx context.Context, page Page) (Result, error) {
	if err := l.cfg.Validate(); err != nil {
		return Result{}, err
	}

	var res Result
	for res.Polls < l.cfg.MaxPolls {
		if err := wait(ctx, l.cfg.Delay); err != nil {
			return res, err
		}

		if err := page.ScrollToBottom(ctx); err != nil {
			return res, fmt.Errorf("scroll to bottom: %w", err)
		}
		signal, err := page.Progress(ctx)
		if err != nil {
			return res, fmt.Errorf("read progress: %w", err)
		}

		res.Polls++
		if signal == res.Signal {
			res.Stagnant++
		} else {
			res.Stagnant = 0
			res.Signal = signal
		}

		if res.Stagnant >= l.cfg.StagnationThreshold {
			res.Outcome = Converged
		} else if res.Polls >= l.cfg.MaxPolls {
			res.Outcome = ForcedStop
		}

		if l.OnPoll != nil {
			l.OnPoll(res)
		}
		if res.Outcome != Running {
			return res, nil
		}
	}

	res.Outcome = ForcedStop
	return res, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 || ctx.Err() != nil {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
