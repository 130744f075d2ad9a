package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/search"
)

func elasticServer(t *testing.T, handle func(path string, body map[string]interface{}) string) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(handle(r.URL.Path, body)))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticFetcher_SearchAfterPaging(t *testing.T) {
	var paths []string
	var bodies []map[string]interface{}
	client := elasticServer(t, func(path string, body map[string]interface{}) string {
		paths = append(paths, path)
		bodies = append(bodies, body)
		return `{"hits":{"hits":[
			{"_source":{"entity_id":4,"sku":"BOOT-BLK","name":"Black Boot","price":"30.00","currency_code":"USD","is_in_stock":1,"image":"b/boot.jpg"},"sort":[30.0,4]},
			{"_source":{"entity_id":3,"sku":"HAT-RED","url_key":"red-hat","name":"Red Hat","price":20,"currency_code":"USD","is_in_stock":0},"sort":[20.0,3]}
		]}}`
	})
	f := NewElasticFetcher(client, ElasticIndex("storefront", 1), "https://media.test/")

	page, err := f.FetchProducts(context.Background(), search.Request{SortKey: search.SortPrice, Reverse: true, Query: "red", First: 2})
	require.NoError(t, err)

	require.Equal(t, []string{"/storefront_catalog_product_1/_search"}, paths)
	body := bodies[0]
	assert.Equal(t, float64(2), body["size"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"price": map[string]interface{}{"order": "desc"}},
		map[string]interface{}{"entity_id": map[string]interface{}{"order": "desc"}},
	}, body["sort"])
	assert.NotContains(t, body, "search_after")
	assert.Equal(t, "red", body["query"].(map[string]interface{})["multi_match"].(map[string]interface{})["query"])

	require.Len(t, page.Products, 2)
	assert.Equal(t, search.Product{
		ID: "4", Handle: "BOOT-BLK", SKU: "BOOT-BLK", Title: "Black Boot", Price: 30,
		CurrencyCode: "USD", ImageURL: "https://media.test/b/boot.jpg", Available: true,
	}, page.Products[0])
	assert.Equal(t, "red-hat", page.Products[1].Handle)
	assert.False(t, page.Products[1].Available)

	raw, err := base64.RawURLEncoding.DecodeString(page.EndCursor)
	require.NoError(t, err)
	assert.JSONEq(t, `[20.0,3]`, string(raw))

	_, err = f.FetchProducts(context.Background(), search.Request{SortKey: search.SortPrice, Reverse: true, Cursor: page.EndCursor})
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.Equal(t, []interface{}{float64(20), float64(3)}, bodies[1]["search_after"])
	assert.Equal(t, map[string]interface{}{"match_all": map[string]interface{}{}}, bodies[1]["query"])
}

func TestElasticFetcher_UnknownSortFallsBackToScore(t *testing.T) {
	var body map[string]interface{}
	client := elasticServer(t, func(_ string, b map[string]interface{}) string {
		body = b
		return `{"hits":{"hits":[]}}`
	})
	page, err := NewElasticFetcher(client, "idx", "").FetchProducts(context.Background(), search.Request{SortKey: "TITLE"})
	require.NoError(t, err)
	assert.Empty(t, page.EndCursor)
	assert.Equal(t, float64(defaultElasticPageSize), body["size"])
	assert.Equal(t,
		map[string]interface{}{"_score": map[string]interface{}{"order": "desc"}},
		body["sort"].([]interface{})[0])
}

func TestElasticFetcher_InvalidCursor(t *testing.T) {
	client := elasticServer(t, func(string, map[string]interface{}) string {
		t.Error("no request expected for an invalid cursor")
		return `{}`
	})
	f := NewElasticFetcher(client, "idx", "")
	for _, c := range []string{"%%%", base64.RawURLEncoding.EncodeToString([]byte(`{"a":1}`)), base64.RawURLEncoding.EncodeToString([]byte(`[]`))} {
		_, err := f.FetchProducts(context.Background(), search.Request{Cursor: c})
		assert.ErrorIs(t, err, ErrInvalidSearchAfter, "cursor %q", c)
	}
}
