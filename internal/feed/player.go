package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/scheduler"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Player applies steps to a Target through a Runner, honoring step delays
// and the configured submission rate.
type Player struct {
	target  Target
	runner  Runner
	router  *Router
	limiter *rate.Limiter
	speed   float64
	log     zerolog.Logger

	// refs is only touched on the runner goroutine.
	refs map[string]scheduler.Handle
}

// PlayerOption configures a [Player].
type PlayerOption func(*Player)

// WithRouter routes show steps through r.
func WithRouter(r *Router) PlayerOption {
	return func(p *Player) {
		p.router = r
	}
}

// WithSpeed scales step delays; 2 plays twice as fast. Non-positive values
// are ignored.
func WithSpeed(speed float64) PlayerOption {
	return func(p *Player) {
		if speed > 0 {
			p.speed = speed
		}
	}
}

// WithLogger sets the player logger.
func WithLogger(l zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = l
	}
}

// NewPlayer creates a player. cfg sets the show rate limit.
func NewPlayer(target Target, runner Runner, cfg config.FeedConfig, opts ...PlayerOption) *Player {
	p := &Player{
		target:  target,
		runner:  runner,
		limiter: NewLimiter(cfg),
		speed:   1,
		log:     zerolog.Nop(),
		refs:    make(map[string]scheduler.Handle),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewLimiter builds the show limiter for cfg. A zero rate is unlimited.
func NewLimiter(cfg config.FeedConfig) *rate.Limiter {
	burst := max(cfg.Burst, 1)
	if cfg.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(cfg.Rate), burst)
}

// Play runs steps in order and returns once the last one was applied.
func (p *Player) Play(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := p.Step(ctx, step); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Stream applies every line read from r as it arrives. Malformed lines are
// logged and skipped. It returns when r is exhausted or ctx is done.
func (p *Player) Stream(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}

		step, err := ParseLine(sc.Text())
		if err != nil {
			p.log.Warn().Err(err).Str("line", sc.Text()).Msg("skipping input line")
			continue
		}
		if step.Source == "" {
			step.Source = "stdin"
		}

		if err := p.Step(ctx, step); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Step waits for the step delay and the rate limiter, then applies it.
func (p *Player) Step(ctx context.Context, step Step) error {
	if err := p.sleep(ctx, time.Duration(step.After)); err != nil {
		return err
	}

	if step.Action == "" || step.Action == ActionShow {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return p.runner.Do(ctx, func() { p.apply(step) })
}

func (p *Player) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(time.Duration(float64(d) / p.speed))
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// apply runs on the runner goroutine.
func (p *Player) apply(step Step) {
	switch step.Action {
	case "", ActionShow:
		opts, ok := p.router.Route(step.Options())
		if !ok {
			p.log.Debug().Str("source", step.Source).Str("message", step.Message).Msg("notice dropped by rule")
			return
		}
		h := p.target.ShowOptions(step.Message, opts)
		if step.Ref != "" && h != 0 {
			p.refs[step.Ref] = h
		}
	case ActionDismiss:
		h, ok := p.refs[step.Ref]
		if !ok {
			p.log.Debug().Str("ref", step.Ref).Msg("dismiss of unknown ref")
			return
		}
		p.target.Dismiss(h)
	case ActionClear:
		p.target.ClearAll()
	case ActionEnable:
		p.target.Enable()
	case ActionDisable:
		p.target.Disable()
	}
}
