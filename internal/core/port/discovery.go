package port

import (
	"context"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
)

// CommandHandler runs when a command arrives for a bound component. The
// returned string is published back as the component state.
type CommandHandler func(ctx context.Context, payload string) (string, error)

type DiscoveryPublisher interface {
	Publish(ctx context.Context, component domain.Component) error
	Bind(ctx context.Context, component domain.Component, handler CommandHandler) error
}
