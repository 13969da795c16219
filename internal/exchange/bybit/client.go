package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// DemoBaseURL is Bybit's paper trading environment.
const DemoBaseURL = "https://api-demo.bybit.com"

// Client reads market data from the Bybit v5 API.
type Client struct {
	httpClient *bybit_api.Client
	category   string
	testnet    bool
	demo       bool
}

// Config holds the configuration for the Bybit client
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool   // Demo trading environment
	Category  string // "spot", "linear" or "inverse"; defaults to spot
	BaseURL   string // overrides the environment selection when set
}

// NewClient creates a new Bybit client. Market data endpoints are public, so
// empty credentials are fine.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		switch {
		case config.Demo:
			baseURL = DemoBaseURL
		case config.Testnet:
			baseURL = bybit_api.TESTNET
		default:
			baseURL = bybit_api.MAINNET
		}
	}

	category := config.Category
	if category == "" {
		category = "spot"
	}

	return &Client{
		httpClient: bybit_api.NewBybitHttpClient(
			config.APIKey,
			config.APISecret,
			bybit_api.WithBaseURL(baseURL),
		),
		category: category,
		testnet:  config.Testnet,
		demo:     config.Demo,
	}
}

// Name identifies the exchange in logs, metrics and reports.
func (c *Client) Name() string {
	return "bybit"
}

// Category returns the product category klines are requested for.
func (c *Client) Category() string {
	return c.category
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	switch {
	case c.demo:
		return "demo"
	case c.testnet:
		return "testnet"
	default:
		return "mainnet"
	}
}
