package interfaces

import (
	"context"

	"kalshi-hedge-fund/internal/types"
)

// EventPublisher pushes pipeline events onto the message stream.
type EventPublisher interface {
	PublishSignal(ctx context.Context, signal types.Signal) error
	PublishTrade(ctx context.Context, execution types.Execution) error
	PublishAlert(ctx context.Context, alert types.Alert) error
	Close() error
}
