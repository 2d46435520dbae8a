// Package shopify is a thin Storefront API client. It fetches the product
// catalog with one GraphQL query and hands the raw nodes to the catalog
// normalizer.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/naturburst/naturburst.com-sub000/internal/util"
)

const productsQuery = `
query StorefrontProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        vendor
        productType
        description
        totalInventory
        tags
        priceRange {
          minVariantPrice { amount currencyCode }
        }
        images(first: 10) {
          edges { node { url } }
        }
        variants(first: 50) {
          edges {
            node {
              id
              title
              sku
              availableForSale
              weight
              weightUnit
              price { amount currencyCode }
              compareAtPrice { amount currencyCode }
              selectedOptions { name value }
            }
          }
        }
        metafields(identifiers: [
          {namespace: "custom", key: "ingredients"},
          {namespace: "custom", key: "nutrition"},
          {namespace: "custom", key: "price_overrides"},
          {namespace: "custom", key: "tasting_notes"},
          {namespace: "custom", key: "storage_instructions"},
          {namespace: "custom", key: "calories"},
          {namespace: "custom", key: "fat"},
          {namespace: "custom", key: "carbs"},
          {namespace: "custom", key: "protein"}
        ]) {
          namespace
          key
          value
        }
      }
    }
  }
}`

const defaultPageSize = 100

// Client talks to one Shopify Storefront endpoint.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient builds a client for the given shop domain, storefront access
// token, and API version.
func NewClient(domain, token, apiVersion string) *Client {
	return &Client{
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", domain, apiVersion),
		token:    token,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   util.GetLogger(),
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node json.RawMessage `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// FetchProducts runs the catalog query and returns the raw product nodes.
func (c *Client) FetchProducts(ctx context.Context) ([]json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     productsQuery,
		Variables: map[string]interface{}{"first": defaultPageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal storefront query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront request failed: status %d", resp.StatusCode)
	}

	var decoded productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode storefront response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("storefront query error: %s", decoded.Errors[0].Message)
	}

	nodes := make([]json.RawMessage, 0, len(decoded.Data.Products.Edges))
	for _, edge := range decoded.Data.Products.Edges {
		nodes = append(nodes, edge.Node)
	}

	c.logger.Info("Fetched storefront catalog", zap.Int("products", len(nodes)))
	return nodes, nil
}
