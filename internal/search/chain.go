package search

import (
	"context"

	"github.com/law-makers/collegecrawl/pkg/models"
	"github.com/rs/zerolog"
)

// Chain tries providers in order and stops at the first one that yields candidates.
// A provider error counts as an empty result.
type Chain struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewChain builds a chain; the first provider is the primary.
func NewChain(logger zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, logger: logger}
}

// Search runs the chain. onAttempt, if set, is called before each provider is queried.
func (c *Chain) Search(ctx context.Context, q Query, onAttempt func(p Provider)) []models.SearchCandidate {
	for i, p := range c.providers {
		if ctx.Err() != nil {
			return nil
		}
		if onAttempt != nil {
			onAttempt(p)
		}

		candidates, err := p.Search(ctx, q)
		if err != nil {
			c.logger.Error().Err(err).Str("provider", p.Name()).Msg("Search provider failed")
		}
		if len(candidates) > 0 {
			return candidates
		}
		if i < len(c.providers)-1 {
			c.logger.Warn().Str("provider", p.Name()).Msg("No results, trying next provider")
		}
	}
	return nil
}

// Providers returns the chain's providers in order.
func (c *Chain) Providers() []Provider {
	return c.providers
}
