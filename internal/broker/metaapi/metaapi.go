// Package metaapi maintains a single synchronized session per trading
// account against the MetaApi terminal bridge and exposes the query and
// execute primitives the strategy needs.
package metaapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"forex-ai-trader/internal/api"
	"forex-ai-trader/internal/interfaces"
)

const (
	defaultProvisioningURL = "https://mt-provisioning-api-v1.agiliumtrade.agiliumtrade.ai"
	defaultClientURL       = "https://mt-client-api-v1.agiliumtrade.agiliumtrade.ai"

	deploymentTimeout = 60 * time.Second
	pollInterval      = 1 * time.Second
)

// httpAPI is the slice of api.Client the gateway uses. Tests substitute
// a mock transport.
type httpAPI interface {
	GET(ctx context.Context, url string, headers ...map[string]string) (*api.Response, error)
	POST(ctx context.Context, url string, body any, headers ...map[string]string) (*api.Response, error)
}

type Params struct {
	Token         string
	AccountID     string
	ApplicationID string

	// Overrides for tests; production leaves these empty.
	ProvisioningURL string
	ClientURL       string
	Provisioning    httpAPI
	Client          httpAPI
	Now             func() time.Time
	Sleep           func(ctx context.Context, d time.Duration) error
}

// Gateway is the owned session object injected into the orchestrator.
// One Gateway per account; concurrent cycles share it.
type Gateway struct {
	provisioning httpAPI
	client       httpAPI
	accountID    string
	appID        string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	group   singleflight.Group
	state   atomic.Int32
	mu      sync.Mutex
	account *accountInfo
	specs   sync.Map // symbol -> types.SymbolSpecification
}

var _ interfaces.Broker = (*Gateway)(nil)

func New(p Params) *Gateway {
	provisioningURL := p.ProvisioningURL
	if provisioningURL == "" {
		provisioningURL = defaultProvisioningURL
	}
	clientURL := p.ClientURL
	if clientURL == "" {
		clientURL = defaultClientURL
	}

	provisioning := p.Provisioning
	if provisioning == nil {
		provisioning = api.NewClient(
			api.WithBaseURL(provisioningURL),
			api.WithHeader("auth-token", p.Token),
			api.WithTimeout(30*time.Second),
		)
	}
	client := p.Client
	if client == nil {
		client = api.NewClient(
			api.WithBaseURL(clientURL),
			api.WithHeader("auth-token", p.Token),
			api.WithTimeout(30*time.Second),
		)
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}

	return &Gateway{
		provisioning: provisioning,
		client:       client,
		accountID:    p.AccountID,
		appID:        p.ApplicationID,
		now:          now,
		sleep:        sleep,
	}
}
