package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
	"github.com/apper-canvas/shopsync/pkg/httpclient"
	"github.com/apper-canvas/shopsync/pkg/money"
)

// Product is the catalog service's view of a product.
type Product struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    money.Cents `json:"price"`
	ImageURL string      `json:"image_url,omitempty"`
}

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CatalogClient fetches product data from the catalog service. It is
// typically wired with a circuit-breaker HTTP client so catalog outages fail
// fast instead of stalling cart mutations.
type CatalogClient struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewCatalogClient creates a catalog client against the given base URL.
func NewCatalogClient(http HTTPDoer, baseURL string, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		http:    http,
		baseURL: baseURL,
		logger:  logger,
	}
}

// CircuitOpenFallback is wired into the circuit-breaker HTTP client so an
// open breaker surfaces as a service-unavailable error instead of the raw
// gobreaker error.
func CircuitOpenFallback(ctx context.Context, err error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("catalog service is temporarily unavailable")
}

type productResponse struct {
	Data Product `json:"data"`
}

// GetProduct fetches a product by ID.
func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}
	defer resp.Body.Close()

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	c.logger.DebugContext(ctx, "fetched product from catalog",
		slog.String("product_id", productID),
	)

	return &body.Data, nil
}
