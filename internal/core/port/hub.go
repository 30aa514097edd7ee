package port

import (
	"context"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
)

// HubClient is the read/write access to the hub state API. Implementations
// must be safe for concurrent use and must not cache.
type HubClient interface {
	Read(ctx context.Context, entityId string) (domain.RawState, error)
	ListStates(ctx context.Context) ([]domain.RawState, error)
	Write(ctx context.Context, entityId string, payload domain.WritePayload) error
	CallService(ctx context.Context, serviceDomain string, service string, data map[string]any) error
}
