package generation

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

// dedupingGenerator wraps a Generator so that concurrent calls for the same
// phrases and topic share one remote request. The foreground path and the
// prefetch pipeline can race to populate the same cache key; coalescing here
// keeps that race from doubling remote calls.
type dedupingGenerator struct {
	inner Generator
	group singleflight.Group
}

// NewDedupingGenerator wraps gen with per-key request coalescing.
func NewDedupingGenerator(gen Generator) Generator {
	return &dedupingGenerator{inner: gen}
}

// GenerateScenario implements the Generator interface.
func (g *dedupingGenerator) GenerateScenario(
	ctx context.Context,
	phrases []string,
	topic string,
) (*domain.Scenario, error) {
	key := topic + "\x00" + strings.Join(phrases, "\x00")

	v, err, _ := g.group.Do(key, func() (any, error) {
		return g.inner.GenerateScenario(ctx, phrases, topic)
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Scenario), nil
}
