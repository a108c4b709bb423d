package metaapi

import (
	"context"
	"errors"
	"fmt"

	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/trace"
)

// ErrDeploymentTimeout reports an account that never reached the DEPLOYED
// state within the bounded wait. The session is reset so the next cycle
// can retry from scratch.
var ErrDeploymentTimeout = errors.New("account deployment timed out")

// State tracks the connection lifecycle of the gateway.
type State int32

const (
	StateUninitialized State = iota
	StateAccountResolved
	StateDeploying
	StateDeployed
	StateConnected
	StateSynchronized
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAccountResolved:
		return "account_resolved"
	case StateDeploying:
		return "deploying"
	case StateDeployed:
		return "deployed"
	case StateConnected:
		return "connected"
	case StateSynchronized:
		return "synchronized"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type accountInfo struct {
	ID               string `json:"_id"`
	Name             string `json:"name"`
	Login            string `json:"login"`
	Server           string `json:"server"`
	State            string `json:"state"`
	ConnectionStatus string `json:"connectionStatus"`
}

func (g *Gateway) State() State {
	return State(g.state.Load())
}

func (g *Gateway) setState(s State) {
	g.state.Store(int32(s))
}

// Connect brings the account to a synchronized session. It is safe to
// call from concurrent cycles: overlapping callers share a single
// bootstrap via singleflight, and once synchronized it is a no-op.
func (g *Gateway) Connect(ctx context.Context) error {
	switch g.State() {
	case StateSynchronized:
		return nil
	case StateClosed:
		return errors.New("broker gateway is closed")
	}

	_, err, _ := g.group.Do(g.accountID, func() (any, error) {
		if g.State() == StateSynchronized {
			return nil, nil
		}
		return nil, g.bootstrap(ctx)
	})
	return err
}

// bootstrap walks the session through resolution, deployment and
// synchronization. Any failure resets the state machine so a later
// Connect starts over.
func (g *Gateway) bootstrap(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "metaapi-connect")
	defer span.End()

	acct, err := g.fetchAccount(ctx)
	if err != nil {
		g.setState(StateUninitialized)
		return fmt.Errorf("failed to resolve account %s: %w", g.accountID, err)
	}
	g.mu.Lock()
	g.account = &acct
	g.mu.Unlock()
	g.setState(StateAccountResolved)
	logger.Debug(ctx, "Resolved trading account",
		"account_id", g.accountID,
		"server", acct.Server,
		"state", acct.State,
	)

	if acct.State != "DEPLOYED" {
		if err := g.deploy(ctx); err != nil {
			g.setState(StateUninitialized)
			return err
		}
		g.setState(StateDeploying)
		if err := g.awaitAccount(ctx, "deployment", func(a accountInfo) bool {
			return a.State == "DEPLOYED"
		}); err != nil {
			g.setState(StateUninitialized)
			return err
		}
	}
	g.setState(StateDeployed)

	g.setState(StateConnected)
	if err := g.awaitAccount(ctx, "synchronization", func(a accountInfo) bool {
		return a.ConnectionStatus == "CONNECTED"
	}); err != nil {
		g.setState(StateUninitialized)
		return err
	}
	g.setState(StateSynchronized)

	logger.Info(ctx, "Broker session synchronized", "account_id", g.accountID)
	return nil
}

func (g *Gateway) fetchAccount(ctx context.Context) (accountInfo, error) {
	resp, err := g.provisioning.GET(ctx, fmt.Sprintf("/users/current/accounts/%s", g.accountID))
	if err != nil {
		return accountInfo{}, err
	}
	var acct accountInfo
	if err := resp.ParseJSON(&acct); err != nil {
		return accountInfo{}, fmt.Errorf("failed to decode account payload: %w", err)
	}
	return acct, nil
}

func (g *Gateway) deploy(ctx context.Context) error {
	logger.Info(ctx, "Deploying trading account", "account_id", g.accountID)
	if _, err := g.provisioning.POST(ctx, fmt.Sprintf("/users/current/accounts/%s/deploy", g.accountID), nil); err != nil {
		return fmt.Errorf("failed to deploy account %s: %w", g.accountID, err)
	}
	return nil
}

// awaitAccount polls the account resource every pollInterval until the
// predicate holds or deploymentTimeout elapses.
func (g *Gateway) awaitAccount(ctx context.Context, phase string, ready func(accountInfo) bool) error {
	deadline := g.now().Add(deploymentTimeout)
	for {
		acct, err := g.fetchAccount(ctx)
		if err != nil {
			return fmt.Errorf("%s poll failed: %w", phase, err)
		}
		if ready(acct) {
			g.mu.Lock()
			g.account = &acct
			g.mu.Unlock()
			return nil
		}
		if !g.now().Before(deadline) {
			return fmt.Errorf("%w: %s still pending after %s (state=%s connection=%s)",
				ErrDeploymentTimeout, phase, deploymentTimeout, acct.State, acct.ConnectionStatus)
		}
		if err := g.sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// Close tears down the session. The account itself stays deployed so a
// restart reattaches quickly; only local state is discarded.
func (g *Gateway) Close(ctx context.Context) error {
	if g.State() == StateClosed {
		return nil
	}
	g.setState(StateClosed)
	g.mu.Lock()
	g.account = nil
	g.mu.Unlock()
	g.specs.Range(func(key, _ any) bool {
		g.specs.Delete(key)
		return true
	})
	logger.Info(ctx, "Broker session closed", "account_id", g.accountID)
	return nil
}
