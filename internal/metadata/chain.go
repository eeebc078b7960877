package metadata

import (
	"context"
	"errors"
	"log/slog"

	"vidsync/internal/logging"
)

// Chain tries resolvers in order and returns the first answer. A resolver
// failure falls through to the next one; ErrUnavailable from every stage
// means the video is genuinely gone.
type Chain struct {
	resolvers []Resolver
	logger    *slog.Logger
}

// NewChain builds a fallback chain. Nil resolvers are skipped.
func NewChain(logger *slog.Logger, resolvers ...Resolver) *Chain {
	kept := make([]Resolver, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return &Chain{resolvers: kept, logger: logging.NewComponentLogger(logger, "metadata")}
}

// Resolve walks the chain until a resolver answers.
func (c *Chain) Resolve(ctx context.Context, videoURL string) (*Metadata, error) {
	if len(c.resolvers) == 0 {
		return nil, errors.New("resolve: no resolvers configured")
	}

	var lastErr error
	for i, resolver := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		meta, err := resolver.Resolve(ctx, videoURL)
		if err == nil {
			return meta, nil
		}
		lastErr = err
		if i < len(c.resolvers)-1 {
			c.logger.Debug("resolver stage failed, falling back",
				logging.Int("stage", i),
				logging.String("url", videoURL),
				logging.Error(err))
		}
	}
	return nil, lastErr
}
