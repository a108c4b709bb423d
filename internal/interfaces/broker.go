package interfaces

import (
	"context"

	"forex-ai-trader/internal/types"
)

// Broker owns a single synchronized session to a remote trading
// terminal. Query and execute calls establish the session on demand.
type Broker interface {
	Connect(ctx context.Context) error
	AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error)
	OpenPositions(ctx context.Context) ([]types.PositionSnapshot, error)
	SymbolSpec(ctx context.Context, symbol string) (types.SymbolSpecification, error)
	Price(ctx context.Context, symbol string) (types.Quote, error)
	SubmitOrder(ctx context.Context, req types.TradeRequest) (types.TradeResult, error)
	Close(ctx context.Context) error
}
