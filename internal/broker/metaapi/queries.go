package metaapi

import (
	"context"
	"fmt"
	"math"
	"strings"

	"forex-ai-trader/internal/types"
)

// accountPath builds a client API path under the current account.
func (g *Gateway) accountPath(parts ...string) string {
	p := fmt.Sprintf("/users/current/accounts/%s", g.accountID)
	if len(parts) > 0 {
		p += "/" + strings.Join(parts, "/")
	}
	return p
}

// AccountSnapshot reads fresh balance and margin figures. Never cached;
// the sizer must see the current balance.
func (g *Gateway) AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error) {
	if err := g.Connect(ctx); err != nil {
		return types.AccountSnapshot{}, err
	}

	resp, err := g.client.GET(ctx, g.accountPath("account-information"))
	if err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to fetch account information: %w", err)
	}

	var snapshot types.AccountSnapshot
	if err := resp.ParseJSON(&snapshot); err != nil {
		return types.AccountSnapshot{}, fmt.Errorf("failed to decode account information: %w", err)
	}
	return snapshot, nil
}

type positionPayload struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Type             string  `json:"type"`
	Volume           float64 `json:"volume"`
	OpenPrice        float64 `json:"openPrice"`
	Profit           float64 `json:"profit"`
	UnrealizedProfit float64 `json:"unrealizedProfit"`
	Magic            int     `json:"magic"`
	Comment          string  `json:"comment"`
}

// OpenPositions lists every open position on the account. Callers filter
// by magic number when they only care about positions this bot opened.
func (g *Gateway) OpenPositions(ctx context.Context) ([]types.PositionSnapshot, error) {
	if err := g.Connect(ctx); err != nil {
		return nil, err
	}

	resp, err := g.client.GET(ctx, g.accountPath("positions"))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}

	var raw []positionPayload
	if err := resp.ParseJSON(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}

	positions := make([]types.PositionSnapshot, 0, len(raw))
	for _, p := range raw {
		action := types.ActionBuy
		if p.Type == "POSITION_TYPE_SELL" {
			action = types.ActionSell
		}
		positions = append(positions, types.PositionSnapshot{
			ID:               p.ID,
			Symbol:           p.Symbol,
			Type:             action,
			Volume:           p.Volume,
			Price:            p.OpenPrice,
			Profit:           p.Profit,
			UnrealizedProfit: p.UnrealizedProfit,
			Magic:            p.Magic,
			Comment:          p.Comment,
		})
	}
	return positions, nil
}

// SymbolSpec returns the trading constraints for a symbol. Specs do not
// change within a session so they are cached after the first fetch.
func (g *Gateway) SymbolSpec(ctx context.Context, symbol string) (types.SymbolSpecification, error) {
	if cached, ok := g.specs.Load(symbol); ok {
		return cached.(types.SymbolSpecification), nil
	}

	if err := g.Connect(ctx); err != nil {
		return types.SymbolSpecification{}, err
	}

	resp, err := g.client.GET(ctx, g.accountPath("symbols", symbol, "specification"))
	if err != nil {
		return types.SymbolSpecification{}, fmt.Errorf("failed to fetch specification for %s: %w", symbol, err)
	}

	var spec types.SymbolSpecification
	if err := resp.ParseJSON(&spec); err != nil {
		return types.SymbolSpecification{}, fmt.Errorf("failed to decode specification for %s: %w", symbol, err)
	}
	if spec.Symbol == "" {
		spec.Symbol = symbol
	}
	if spec.Point == 0 && spec.Digits > 0 {
		spec.Point = math.Pow(10, -float64(spec.Digits))
	}

	g.specs.Store(symbol, spec)
	return spec, nil
}

// Price returns the current bid/ask quote for a symbol.
func (g *Gateway) Price(ctx context.Context, symbol string) (types.Quote, error) {
	if err := g.Connect(ctx); err != nil {
		return types.Quote{}, err
	}

	resp, err := g.client.GET(ctx, g.accountPath("symbols", symbol, "current-price"))
	if err != nil {
		return types.Quote{}, fmt.Errorf("failed to fetch price for %s: %w", symbol, err)
	}

	var quote types.Quote
	if err := resp.ParseJSON(&quote); err != nil {
		return types.Quote{}, fmt.Errorf("failed to decode price for %s: %w", symbol, err)
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	return quote, nil
}
