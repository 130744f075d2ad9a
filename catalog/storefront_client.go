package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront.GO/search"
)

const productsQuery = `query Products($first: Int, $after: String, $sortKey: ProductSortKeys, $reverse: Boolean, $query: String) {
  products(first: $first, after: $after, sortKey: $sortKey, reverse: $reverse, query: $query) {
    edges {
      node {
        id
        handle
        sku
        title
        availableForSale
        priceRange { minVariantPrice { amount currencyCode } }
        featuredImage { url }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// StorefrontClient fetches product pages from a storefront GraphQL endpoint.
type StorefrontClient struct {
	endpoint   string
	storeID    uint16
	httpClient *http.Client
}

// ClientOption configures a StorefrontClient.
type ClientOption func(*StorefrontClient)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(s *StorefrontClient) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithStoreID sends the Store header on every request.
func WithStoreID(id uint16) ClientOption {
	return func(s *StorefrontClient) { s.storeID = id }
}

func NewStorefrontClient(endpoint string, opts ...ClientOption) *StorefrontClient {
	c := &StorefrontClient{endpoint: endpoint, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type storefrontProduct struct {
	ID               string `json:"id"`
	Handle           string `json:"handle"`
	SKU              string `json:"sku"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	PriceRange       struct {
		MinVariantPrice struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRange"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
}

type productsResponse struct {
	Data struct {
		Products *struct {
			Edges []struct {
				Node storefrontProduct `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool    `json:"hasNextPage"`
				EndCursor   *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *StorefrontClient) FetchProducts(ctx context.Context, req search.Request) (search.Page, error) {
	vars := map[string]interface{}{"reverse": req.Reverse}
	if req.SortKey != "" {
		vars["sortKey"] = req.SortKey
	}
	if req.First > 0 {
		vars["first"] = req.First
	}
	if req.Cursor != "" {
		vars["after"] = req.Cursor
	}
	if req.Query != "" {
		vars["query"] = req.Query
	}
	body, err := json.Marshal(graphQLRequest{Query: productsQuery, Variables: vars})
	if err != nil {
		return search.Page{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return search.Page{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.storeID > 0 {
		httpReq.Header.Set("Store", strconv.FormatUint(uint64(c.storeID), 10))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return search.Page{}, fmt.Errorf("storefront request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return search.Page{}, fmt.Errorf("storefront status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return search.Page{}, fmt.Errorf("decode storefront response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			msgs[i] = e.Message
		}
		return search.Page{}, fmt.Errorf("storefront graphql: %s", strings.Join(msgs, "; "))
	}
	if out.Data.Products == nil {
		return search.Page{}, fmt.Errorf("storefront graphql: response has no products")
	}

	conn := out.Data.Products
	page := search.Page{Products: make([]search.Product, 0, len(conn.Edges))}
	if conn.PageInfo.EndCursor != nil {
		page.EndCursor = *conn.PageInfo.EndCursor
	}
	for _, e := range conn.Edges {
		page.Products = append(page.Products, e.Node.toProduct())
	}
	return page, nil
}

func (n storefrontProduct) toProduct() search.Product {
	price, _ := strconv.ParseFloat(n.PriceRange.MinVariantPrice.Amount, 64)
	p := search.Product{
		ID:           n.ID,
		Handle:       n.Handle,
		SKU:          n.SKU,
		Title:        n.Title,
		Price:        price,
		CurrencyCode: n.PriceRange.MinVariantPrice.CurrencyCode,
		Available:    n.AvailableForSale,
	}
	if n.FeaturedImage != nil {
		p.ImageURL = n.FeaturedImage.URL
	}
	return p
}
