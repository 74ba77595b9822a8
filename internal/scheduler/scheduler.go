// Package scheduler debounces icon renders and publishes only the newest
// completed result.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/youruser/cartridgeicon/internal/compose"
)

const DefaultDelay = 150 * time.Millisecond

var ErrStopped = errors.New("scheduler stopped")

// RenderFunc produces a result for one input snapshot.
type RenderFunc func(ctx context.Context, spec compose.IconSpec) (*compose.Result, error)

// Preview is an immutable snapshot of the scheduler's public state.
type Preview struct {
	// Result is the latest published render, nil until the first one.
	Result *compose.Result
	// Token identifies the input change Result was rendered from.
	Token uint64
	// Latest is the newest input token received.
	Latest    uint64
	Rendering bool

	Started   int
	Published int
	Discarded int
	Failed    int
}

type completion struct {
	token uint64
	res   *compose.Result
	err   error
}

// Scheduler owns the preview state. Only the Run loop writes it; readers
// get snapshots through Snapshot.
type Scheduler struct {
	render RenderFunc
	delay  time.Duration
	log    *zap.Logger

	updates chan compose.IconSpec
	tokens  chan uint64
	done    chan completion
	stopped chan struct{}

	state atomic.Pointer[Preview]
}

type Option func(*Scheduler)

// WithDelay sets the quiescence window measured from the last input change.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.delay = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

func New(render RenderFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		render:  render,
		delay:   DefaultDelay,
		log:     zap.NewNop(),
		updates: make(chan compose.IconSpec),
		tokens:  make(chan uint64),
		done:    make(chan completion),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(&Preview{})
	return s
}

// Snapshot returns the current preview state.
func (s *Scheduler) Snapshot() Preview {
	return *s.state.Load()
}

// Update records an input change and returns its token. The render for it
// starts once no further change arrives within the delay.
func (s *Scheduler) Update(ctx context.Context, spec compose.IconSpec) (uint64, error) {
	select {
	case s.updates <- spec.WithSize(spec.CanvasSize):
	case <-s.stopped:
		return 0, ErrStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case tok := <-s.tokens:
		return tok, nil
	case <-s.stopped:
		return 0, ErrStopped
	}
}

// Run processes input changes and render completions until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	defer close(s.stopped)

	var (
		st      = *s.state.Load()
		pending compose.IconSpec
		timer   *time.Timer
		fire    <-chan time.Time
	)
	publish := func() {
		p := st
		s.state.Store(&p)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case spec := <-s.updates:
			st.Latest++
			pending = spec
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(s.delay)
			fire = timer.C
			st.Rendering = true
			publish()
			s.tokens <- st.Latest

		case <-fire:
			fire = nil
			tok, spec := st.Latest, pending
			st.Started++
			publish()
			s.log.Debug("render started", zap.Uint64("token", tok))
			go func() {
				res, err := s.render(ctx, spec)
				select {
				case s.done <- completion{token: tok, res: res, err: err}:
				case <-ctx.Done():
				}
			}()

		case c := <-s.done:
			if c.token != st.Latest {
				st.Discarded++
				publish()
				s.log.Debug("stale render dropped",
					zap.Uint64("token", c.token), zap.Uint64("latest", st.Latest))
				continue
			}
			st.Rendering = false
			if c.err != nil {
				st.Failed++
				publish()
				s.log.Error("render failed", zap.Uint64("token", c.token), zap.Error(c.err))
				continue
			}
			st.Result = c.res
			st.Token = c.token
			st.Published++
			publish()
			s.log.Debug("render published", zap.Uint64("token", c.token))
		}
	}
}
