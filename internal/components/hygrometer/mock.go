package hygrometer

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/nerrad567/piplant-core/internal/component"
	"github.com/nerrad567/piplant-core/internal/plant"
)

// Mock reports a random whole-percent moisture on every read.
type Mock struct {
	threshold
}

// Read returns a random moisture level.
func (m *Mock) Read(context.Context) ([]plant.Reading, error) {
	return m.readings(float64(rand.IntN(101))), nil //nolint:gosec // not security sensitive
}

// newMock picks a random dry level in [25, 50] unless
// dry_value_percentage is given.
func newMock(_ context.Context, args component.Args) (any, error) {
	name := args.String("name", "mock-hygrometer")
	dry := args.Float("dry_value_percentage", float64(25+rand.IntN(26))) //nolint:gosec // not security sensitive
	if err := args.Err(); err != nil {
		return nil, err
	}
	dry, err := normaliseDry(dry)
	if err != nil {
		return nil, err
	}
	return &Mock{threshold: threshold{name: name, dry: dry, now: time.Now}}, nil
}
