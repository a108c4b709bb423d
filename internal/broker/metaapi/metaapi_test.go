package metaapi

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"forex-ai-trader/internal/api"
	"forex-ai-trader/internal/types"
)

// mockTransport satisfies httpAPI with canned handlers.
type mockTransport struct {
	getCalls  atomic.Int64
	postCalls atomic.Int64
	get       func(url string) (*api.Response, error)
	post      func(url string, body any) (*api.Response, error)
}

func (m *mockTransport) GET(_ context.Context, url string, _ ...map[string]string) (*api.Response, error) {
	m.getCalls.Add(1)
	return m.get(url)
}

func (m *mockTransport) POST(_ context.Context, url string, body any, _ ...map[string]string) (*api.Response, error) {
	m.postCalls.Add(1)
	if m.post == nil {
		return jsonResponse(`{}`), nil
	}
	return m.post(url, body)
}

func jsonResponse(body string) *api.Response {
	return &api.Response{StatusCode: 200, Body: []byte(body)}
}

func newTestGateway(provisioning, client *mockTransport) *Gateway {
	clock := time.Unix(0, 0)
	return New(Params{
		Token:         "test-token",
		AccountID:     "acct-1",
		ApplicationID: "forex-ai-trader",
		Provisioning:  provisioning,
		Client:        client,
		Now:           func() time.Time { return clock },
		Sleep: func(_ context.Context, d time.Duration) error {
			clock = clock.Add(d)
			return nil
		},
	})
}

func TestConnectSharedAcrossConcurrentCallers(t *testing.T) {
	provisioning := &mockTransport{
		get: func(url string) (*api.Response, error) {
			return jsonResponse(`{"_id":"acct-1","state":"DEPLOYED","connectionStatus":"CONNECTED"}`), nil
		},
	}
	gw := newTestGateway(provisioning, &mockTransport{})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = gw.Connect(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Caller %d: unexpected error: %v", i, err)
		}
	}
	if gw.State() != StateSynchronized {
		t.Errorf("Expected synchronized state, got %s", gw.State())
	}
	// One bootstrap: resolve fetch plus one synchronization poll.
	if got := provisioning.getCalls.Load(); got != 2 {
		t.Errorf("Expected exactly one bootstrap (2 account fetches), got %d", got)
	}

	// Already synchronized; another Connect must not touch the API.
	if err := gw.Connect(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := provisioning.getCalls.Load(); got != 2 {
		t.Errorf("Expected no further account fetches, got %d", got)
	}
}

func TestConnectDeploysUndeployedAccount(t *testing.T) {
	var fetches atomic.Int64
	provisioning := &mockTransport{
		get: func(url string) (*api.Response, error) {
			// Undeployed at first, deployed and connected after the
			// deploy call has been observed.
			if fetches.Add(1) == 1 {
				return jsonResponse(`{"_id":"acct-1","state":"UNDEPLOYED","connectionStatus":"DISCONNECTED"}`), nil
			}
			return jsonResponse(`{"_id":"acct-1","state":"DEPLOYED","connectionStatus":"CONNECTED"}`), nil
		},
	}
	gw := newTestGateway(provisioning, &mockTransport{})

	if err := gw.Connect(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gw.State() != StateSynchronized {
		t.Errorf("Expected synchronized state, got %s", gw.State())
	}
	if got := provisioning.postCalls.Load(); got != 1 {
		t.Errorf("Expected exactly one deploy call, got %d", got)
	}
}

func TestConnectDeploymentTimeout(t *testing.T) {
	provisioning := &mockTransport{
		get: func(url string) (*api.Response, error) {
			return jsonResponse(`{"_id":"acct-1","state":"DEPLOYING","connectionStatus":"DISCONNECTED"}`), nil
		},
	}
	gw := newTestGateway(provisioning, &mockTransport{})

	err := gw.Connect(context.Background())
	if !errors.Is(err, ErrDeploymentTimeout) {
		t.Fatalf("Expected ErrDeploymentTimeout, got %v", err)
	}
	// Failure resets the machine so the next cycle can retry.
	if gw.State() != StateUninitialized {
		t.Errorf("Expected uninitialized state after timeout, got %s", gw.State())
	}
}

func specAndPriceTransport(capture *map[string]any, result string) *mockTransport {
	return &mockTransport{
		get: func(url string) (*api.Response, error) {
			switch {
			case strings.HasSuffix(url, "/specification"):
				return jsonResponse(`{"symbol":"EURUSD","contractSize":100000,"point":0.0001,"digits":4,"minVolume":0.01,"volumeStep":0.01}`), nil
			case strings.HasSuffix(url, "/current-price"):
				return jsonResponse(`{"symbol":"EURUSD","bid":1.1000,"ask":1.1002}`), nil
			}
			return nil, errors.New("unexpected GET " + url)
		},
		post: func(url string, body any) (*api.Response, error) {
			if capture != nil {
				*capture = body.(map[string]any)
			}
			return jsonResponse(result), nil
		},
	}
}

func TestSubmitOrderBuyStopPrices(t *testing.T) {
	var captured map[string]any
	client := specAndPriceTransport(&captured, `{"numericCode":10009,"stringCode":"TRADE_RETCODE_DONE","message":"done","orderId":"100","positionId":"200"}`)
	gw := newTestGateway(&mockTransport{}, client)
	gw.setState(StateSynchronized)

	result, err := gw.SubmitOrder(context.Background(), types.TradeRequest{
		Symbol:         "EURUSD",
		Action:         types.ActionBuy,
		LotSize:        0.5,
		StopLossPips:   20,
		TakeProfitPips: 40,
		MagicNumber:    777,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OrderID != "100" || result.PositionID != "200" {
		t.Errorf("Unexpected result ids: %+v", result)
	}

	if captured["actionType"] != "ORDER_TYPE_BUY" {
		t.Errorf("Expected ORDER_TYPE_BUY, got %v", captured["actionType"])
	}
	// Buy enters at the ask; stop below, target above.
	if sl := captured["stopLoss"].(float64); math.Abs(sl-1.0982) > 1e-9 {
		t.Errorf("Expected stop loss 1.0982, got %f", sl)
	}
	if tp := captured["takeProfit"].(float64); math.Abs(tp-1.1042) > 1e-9 {
		t.Errorf("Expected take profit 1.1042, got %f", tp)
	}
}

func TestSubmitOrderSellStopPrices(t *testing.T) {
	var captured map[string]any
	client := specAndPriceTransport(&captured, `{"numericCode":0,"stringCode":"OK","message":"ok","positionId":"300"}`)
	gw := newTestGateway(&mockTransport{}, client)
	gw.setState(StateSynchronized)

	if _, err := gw.SubmitOrder(context.Background(), types.TradeRequest{
		Symbol:         "EURUSD",
		Action:         types.ActionSell,
		LotSize:        0.1,
		StopLossPips:   20,
		TakeProfitPips: 40,
	}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if captured["actionType"] != "ORDER_TYPE_SELL" {
		t.Errorf("Expected ORDER_TYPE_SELL, got %v", captured["actionType"])
	}
	// Sell enters at the bid; stop above, target below.
	if sl := captured["stopLoss"].(float64); math.Abs(sl-1.1020) > 1e-9 {
		t.Errorf("Expected stop loss 1.1020, got %f", sl)
	}
	if tp := captured["takeProfit"].(float64); math.Abs(tp-1.0960) > 1e-9 {
		t.Errorf("Expected take profit 1.0960, got %f", tp)
	}
}

func TestSubmitOrderRejectedCode(t *testing.T) {
	client := specAndPriceTransport(nil, `{"numericCode":10019,"stringCode":"TRADE_RETCODE_NO_MONEY","message":"not enough money"}`)
	gw := newTestGateway(&mockTransport{}, client)
	gw.setState(StateSynchronized)

	result, err := gw.SubmitOrder(context.Background(), types.TradeRequest{
		Symbol:       "EURUSD",
		Action:       types.ActionBuy,
		LotSize:      0.5,
		StopLossPips: 20,
	})
	if !errors.Is(err, ErrOrderRejected) {
		t.Fatalf("Expected ErrOrderRejected, got %v", err)
	}
	if !strings.Contains(err.Error(), "10019") || !strings.Contains(err.Error(), "TRADE_RETCODE_NO_MONEY") {
		t.Errorf("Expected error to carry the broker codes, got %q", err.Error())
	}
	if result.NumericCode != 10019 {
		t.Errorf("Expected the raw result alongside the error, got %+v", result)
	}
}

func TestSubmitOrderInvalidAction(t *testing.T) {
	gw := newTestGateway(&mockTransport{}, &mockTransport{})
	gw.setState(StateSynchronized)

	if _, err := gw.SubmitOrder(context.Background(), types.TradeRequest{
		Symbol: "EURUSD",
		Action: types.ActionHold,
	}); err == nil {
		t.Error("Expected error for hold action")
	}
}

func TestSymbolSpecCached(t *testing.T) {
	client := specAndPriceTransport(nil, `{}`)
	gw := newTestGateway(&mockTransport{}, client)
	gw.setState(StateSynchronized)

	for i := 0; i < 3; i++ {
		spec, err := gw.SymbolSpec(context.Background(), "EURUSD")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if spec.Point != 0.0001 {
			t.Errorf("Expected point 0.0001, got %f", spec.Point)
		}
	}
	if got := client.getCalls.Load(); got != 1 {
		t.Errorf("Expected a single specification fetch, got %d", got)
	}
}

func TestCloseStopsFurtherUse(t *testing.T) {
	gw := newTestGateway(&mockTransport{}, &mockTransport{})
	gw.setState(StateSynchronized)

	if err := gw.Close(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if gw.State() != StateClosed {
		t.Errorf("Expected closed state, got %s", gw.State())
	}
	if err := gw.Connect(context.Background()); err == nil {
		t.Error("Expected error connecting a closed gateway")
	}
}
