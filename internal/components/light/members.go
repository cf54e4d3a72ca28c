package light

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/infrastructure/logging"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Default options of groups over individually addressed lights.
var memberDefaults = GroupOptions{
	QueryInterval: 2 * time.Minute,
	RetryInterval: 2 * time.Second,
	MaxRetries:    5,
}

// Members drives a fixed list of lights one by one.
type Members []plant.Light

// Powers queries every member.
func (m Members) Powers(ctx context.Context) ([]bool, error) {
	out := make([]bool, 0, len(m))
	for _, l := range m {
		on, err := l.Power(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Name(), err)
		}
		out = append(out, on)
	}
	return out, nil
}

// SetPower switches every member.
func (m Members) SetPower(ctx context.Context, on bool, transition time.Duration) error {
	for _, l := range m {
		if err := l.SetPower(ctx, on, transition); err != nil {
			return fmt.Errorf("%s: %w", l.Name(), err)
		}
	}
	return nil
}

// Colors queries every member.
func (m Members) Colors(ctx context.Context) ([]plant.Color, error) {
	out := make([]plant.Color, 0, len(m))
	for _, l := range m {
		c, err := l.Color(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l.Name(), err)
		}
		out = append(out, c)
	}
	return out, nil
}

// SetColor sets every member's color and power.
func (m Members) SetColor(ctx context.Context, c plant.Color, transition time.Duration) error {
	for _, l := range m {
		if err := l.SetPower(ctx, c.Brightness > 0, transition); err != nil {
			return fmt.Errorf("%s: %w", l.Name(), err)
		}
		if err := l.SetColor(ctx, c, transition); err != nil {
			return fmt.Errorf("%s: %w", l.Name(), err)
		}
	}
	return nil
}

// newMockGroup builds a Group from kwargs:
//
//	name     group name (required)
//	devices  {package_refs: [...]} light entries (required)
//	query_interval, retry_interval, max_retries
func newMockGroup(ctx context.Context, args component.Args) (any, error) {
	args.Require("name", "devices")
	name := args.String("name", "")
	devices := component.InstancesOf[plant.Light](args, "devices")
	opts := optionsFrom(args, memberDefaults)
	if err := args.Err(); err != nil {
		return nil, err
	}

	g, err := NewGroup(name, Members(devices), opts)
	if err != nil {
		return nil, err
	}
	g.SetLogger(logging.FromContext(ctx).Component("light").With("group", name))
	return g, nil
}
