package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Credentials struct {
	AgentToken string
	SecretKey  string
}

type Options struct {
	BaseURL  string
	ProxyURL string
	Timeout  time.Duration
	// HTTPClient overrides the client built from ProxyURL and Timeout.
	HTTPClient *http.Client
}

type RemoteProvider struct {
	Code int64
	Name string
	Logo string
}

type RemoteGame struct {
	Code  string
	Name  string
	Image string
	RTP   *float64
}

type LaunchRequest struct {
	UserCode    string
	UserBalance decimal.Decimal
	GameCode    string
	Lang        string
	HomeURL     string
}

// Aggregator is the remote game catalog and launch API. Implementations
// return *CallError for every failure that reached the network.
type Aggregator interface {
	Providers(ctx context.Context) ([]RemoteProvider, error)
	Games(ctx context.Context, providerCode int64, page int) ([]RemoteGame, error)
	OpenGame(ctx context.Context, req LaunchRequest) (string, error)
}

type Factory func(creds Credentials, opts Options) Aggregator

var aggregators = map[string]Factory{}

func Register(name string, factory Factory) {
	aggregators[strings.ToLower(name)] = factory
}

func Get(name string) Factory {
	return aggregators[strings.ToLower(name)]
}
