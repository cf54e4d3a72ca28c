package light

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Logger is the logging interface used by groups.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Backend talks to the members of a group.
type Backend interface {
	Powers(ctx context.Context) ([]bool, error)
	SetPower(ctx context.Context, on bool, transition time.Duration) error
	Colors(ctx context.Context) ([]plant.Color, error)
	SetColor(ctx context.Context, c plant.Color, transition time.Duration) error
}

// Permanent marks a backend error that retrying cannot fix, such as a
// rejected token.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// GroupOptions tune a Group.
type GroupOptions struct {
	QueryInterval time.Duration
	RetryInterval time.Duration
	MaxRetries    int
}

// optionsFrom reads query_interval, retry_interval and max_retries.
func optionsFrom(args component.Args, def GroupOptions) GroupOptions {
	return GroupOptions{
		QueryInterval: args.Duration("query_interval", def.QueryInterval),
		RetryInterval: args.Duration("retry_interval", def.RetryInterval),
		MaxRetries:    args.Int("max_retries", def.MaxRetries),
	}
}

// Group is a plant.Light over several members.
//
// Thread Safety: safe for concurrent use. Operations are serialised so the
// cache always reflects the last completed request.
type Group struct {
	name    string
	backend Backend
	opts    GroupOptions
	logger  Logger
	now     func() time.Time

	mu        sync.Mutex
	powers    []bool
	colors    []plant.Color
	queryTime time.Time
}

// NewGroup wraps backend.
func NewGroup(name string, backend Backend, opts GroupOptions) (*Group, error) {
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("light group %s: max_retries must not be negative", name)
	}
	return &Group{
		name:    name,
		backend: backend,
		opts:    opts,
		logger:  noopLogger{},
		now:     time.Now,
	}, nil
}

// SetLogger sets the logger for retry warnings.
func (g *Group) SetLogger(logger Logger) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if logger == nil {
		logger = noopLogger{}
	}
	g.logger = logger
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// do runs fn, retrying failures that are not Permanent.
func (g *Group) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var b backoff.BackOff = backoff.NewConstantBackOff(g.opts.RetryInterval)
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(g.opts.MaxRetries)), ctx) //nolint:gosec // checked non-negative

	g.logger.Debug("light group operation", "group", g.name, "op", op)
	err := backoff.RetryNotify(func() error { return fn(ctx) }, b, func(err error, wait time.Duration) {
		g.logger.Warn("light group operation failed, retrying", "group", g.name, "op", op, "error", err, "retry_in", wait)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w (%w)", err, ctxErr)
		}
		return fmt.Errorf("%w: unable to %s on group %s: %w", plant.ErrLightUnreachable, op, g.name, err)
	}
	return nil
}

// stale reports whether the cache needs a refresh. Callers hold g.mu.
func (g *Group) stale() bool {
	return g.queryTime.IsZero() || g.now().Sub(g.queryTime) >= g.opts.QueryInterval
}

// Refresh reloads member state regardless of the cache.
func (g *Group) Refresh(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refresh(ctx)
}

func (g *Group) refresh(ctx context.Context) error {
	var powers []bool
	var colors []plant.Color
	err := g.do(ctx, "refresh", func(ctx context.Context) error {
		var err error
		if powers, err = g.backend.Powers(ctx); err != nil {
			return err
		}
		colors, err = g.backend.Colors(ctx)
		return err
	})
	if err != nil {
		return err
	}
	g.powers, g.colors, g.queryTime = powers, colors, g.now()
	g.logger.Debug("refreshed light group", "group", g.name, "power", powers, "members", len(powers))
	return nil
}

func (g *Group) ensureFresh(ctx context.Context) error {
	if g.stale() {
		return g.refresh(ctx)
	}
	return nil
}

// Powers returns the power state of every member.
func (g *Group) Powers(ctx context.Context) ([]bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(g.powers), nil
}

// Power reports whether any member is on.
func (g *Group) Power(ctx context.Context) (bool, error) {
	powers, err := g.Powers(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(powers, true), nil
}

// SetPower switches every member. Nothing is sent when all members are
// already in the requested state.
func (g *Group) SetPower(ctx context.Context, on bool, transition time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureFresh(ctx); err != nil {
		return err
	}
	if len(g.powers) > 0 && allEqual(g.powers, on) {
		return nil
	}

	err := g.do(ctx, "set power", func(ctx context.Context) error {
		return g.backend.SetPower(ctx, on, transition)
	})
	if err != nil {
		return err
	}
	for i := range g.powers {
		g.powers[i] = on
	}
	return nil
}

// Colors returns every member's color.
func (g *Group) Colors(ctx context.Context) ([]plant.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(g.colors), nil
}

// Color returns the first member's color.
func (g *Group) Color(ctx context.Context) (plant.Color, error) {
	colors, err := g.Colors(ctx)
	if err != nil || len(colors) == 0 {
		return plant.Color{}, err
	}
	return colors[0], nil
}

// SetColor sets every member's color. Members are switched on when the
// brightness is above zero and off otherwise.
func (g *Group) SetColor(ctx context.Context, c plant.Color, transition time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensureFresh(ctx); err != nil {
		return err
	}
	on := c.Brightness > 0
	if len(g.colors) > 0 && allEqual(g.colors, c) && allEqual(g.powers, on) {
		return nil
	}

	err := g.do(ctx, "set color", func(ctx context.Context) error {
		return g.backend.SetColor(ctx, c, transition)
	})
	if err != nil {
		return err
	}
	for i := range g.colors {
		g.colors[i] = c
	}
	for i := range g.powers {
		g.powers[i] = on
	}
	return nil
}

func allEqual[T comparable](items []T, want T) bool {
	for _, v := range items {
		if v != want {
			return false
		}
	}
	return true
}
