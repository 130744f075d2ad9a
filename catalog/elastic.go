package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"

	"storefront.GO/search"
)

// ErrInvalidSearchAfter is returned for cursors that are not encoded sort values.
var ErrInvalidSearchAfter = errors.New("catalog: invalid search_after cursor")

const defaultElasticPageSize = 20

type elasticSort struct {
	field string
	desc  bool
}

// Fields and default directions per sort key. reverse flips the direction.
var elasticSorts = map[string]elasticSort{
	search.SortRelevance:   {field: "_score", desc: true},
	search.SortBestSelling: {field: "sales_count", desc: true},
	search.SortCreatedAt:   {field: "created_at"},
	search.SortPrice:       {field: "price"},
}

// ElasticIndex is the product index name for a store.
func ElasticIndex(prefix string, storeID uint16) string {
	return fmt.Sprintf("%s_catalog_product_%d", prefix, storeID)
}

// ElasticFetcher pages through a product index with search_after. Cursors
// are the base64url-encoded sort values of the last hit.
type ElasticFetcher struct {
	client   *elasticsearch.Client
	index    string
	mediaURL string
}

func NewElasticFetcher(client *elasticsearch.Client, index, mediaURL string) *ElasticFetcher {
	return &ElasticFetcher{client: client, index: index, mediaURL: mediaURL}
}

// elasticDocument is the indexed shape of a product.
type elasticDocument struct {
	EntityID     string  `mapstructure:"entity_id"`
	SKU          string  `mapstructure:"sku"`
	URLKey       string  `mapstructure:"url_key"`
	Name         string  `mapstructure:"name"`
	Price        float64 `mapstructure:"price"`
	CurrencyCode string  `mapstructure:"currency_code"`
	Image        string  `mapstructure:"image"`
	IsInStock    bool    `mapstructure:"is_in_stock"`
}

func (f *ElasticFetcher) FetchProducts(ctx context.Context, req search.Request) (search.Page, error) {
	body, err := f.searchBody(req)
	if err != nil {
		return search.Page{}, err
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return search.Page{}, err
	}

	res, err := f.client.Search(
		f.client.Search.WithContext(ctx),
		f.client.Search.WithIndex(f.index),
		f.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return search.Page{}, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return search.Page{}, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
				Sort   json.RawMessage        `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return search.Page{}, fmt.Errorf("decode elasticsearch response: %w", err)
	}

	page := search.Page{Products: make([]search.Product, 0, len(esResp.Hits.Hits))}
	for _, hit := range esResp.Hits.Hits {
		doc, err := decodeDocument(hit.Source)
		if err != nil {
			return search.Page{}, err
		}
		page.Products = append(page.Products, doc.toProduct(f.mediaURL))
	}
	if n := len(esResp.Hits.Hits); n > 0 {
		page.EndCursor = base64.RawURLEncoding.EncodeToString(esResp.Hits.Hits[n-1].Sort)
	}
	return page, nil
}

func (f *ElasticFetcher) searchBody(req search.Request) (map[string]interface{}, error) {
	s, ok := elasticSorts[req.SortKey]
	if !ok {
		s = elasticSorts[search.SortRelevance]
	}
	order := "asc"
	if s.desc != req.Reverse {
		order = "desc"
	}
	size := req.First
	if size <= 0 {
		size = defaultElasticPageSize
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if req.Query != "" {
		query = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":    req.Query,
				"fields":   []string{"name^3", "sku^2", "description"},
				"operator": "and",
			},
		}
	}

	body := map[string]interface{}{
		"size":             size,
		"query":            query,
		"track_total_hits": false,
		"sort": []map[string]interface{}{
			{s.field: map[string]string{"order": order}},
			{"entity_id": map[string]string{"order": order}},
		},
	}
	if req.Cursor != "" {
		after, err := decodeSearchAfter(req.Cursor)
		if err != nil {
			return nil, err
		}
		body["search_after"] = after
	}
	return body, nil
}

func decodeSearchAfter(cursor string) (json.RawMessage, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSearchAfter, err)
	}
	var values []interface{}
	if err := json.Unmarshal(b, &values); err != nil || len(values) == 0 {
		return nil, fmt.Errorf("%w: not a sort value array", ErrInvalidSearchAfter)
	}
	return json.RawMessage(b), nil
}

func decodeDocument(source map[string]interface{}) (elasticDocument, error) {
	var doc elasticDocument
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
		TagName:          "mapstructure",
	})
	if err != nil {
		return doc, err
	}
	if err := dec.Decode(source); err != nil {
		return doc, fmt.Errorf("decode product document: %w", err)
	}
	return doc, nil
}

func (d elasticDocument) toProduct(mediaURL string) search.Product {
	handle := d.URLKey
	if handle == "" {
		handle = d.SKU
	}
	return search.Product{
		ID:           d.EntityID,
		Handle:       handle,
		SKU:          d.SKU,
		Title:        d.Name,
		Price:        d.Price,
		CurrencyCode: d.CurrencyCode,
		ImageURL:     MediaURL(mediaURL, d.Image),
		Available:    d.IsInStock,
	}
}
