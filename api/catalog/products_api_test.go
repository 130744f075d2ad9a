package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"storefront.GO/core/validate"
	"storefront.GO/model/testutil"
)

func setupEcho(t *testing.T) *echo.Echo {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.Seed(t, db, testutil.Catalog...)
	e := echo.New()
	e.Validator = validate.NewValidator()
	RegisterProductRoutes(e.Group("/api"), db)
	return e
}

func get(t *testing.T, e *echo.Echo, params url.Values) (*httptest.ResponseRecorder, ProductsResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/catalog/products?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out ProductsResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	}
	return rec, out
}

func TestProductsAPI_PagesBySortSlug(t *testing.T) {
	e := setupEcho(t)

	rec, page1 := get(t, e, url.Values{"sort": {"price-desc"}, "first": {"3"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if page1.SortKey != "PRICE" || !page1.Reverse {
		t.Errorf("resolved sort = %s reverse=%t, want PRICE reverse", page1.SortKey, page1.Reverse)
	}
	if len(page1.Products) != 3 || !page1.HasNextPage || page1.EndCursor == "" {
		t.Fatalf("page1 = %+v", page1)
	}
	if page1.Products[0].SKU != "BOOT-BLK" {
		t.Errorf("first product = %s, want BOOT-BLK", page1.Products[0].SKU)
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("missing X-Request-Duration-ms header")
	}

	rec, page2 := get(t, e, url.Values{"sort": {"price-desc"}, "first": {"3"}, "after": {page1.EndCursor}})
	if rec.Code != http.StatusOK {
		t.Fatalf("page2 status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(page2.Products) != 2 || page2.HasNextPage {
		t.Errorf("page2 = %+v, want 2 products and no next page", page2)
	}
}

func TestProductsAPI_UnknownSlugFallsBackToDefault(t *testing.T) {
	e := setupEcho(t)
	rec, out := get(t, e, url.Values{"sort": {"no-such-sort"}, "q": {"red"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if out.SortKey != "RELEVANCE" || out.Reverse {
		t.Errorf("sort = %s reverse=%t, want RELEVANCE", out.SortKey, out.Reverse)
	}
	if len(out.Products) != 2 {
		t.Errorf("products = %d, want 2 matching red", len(out.Products))
	}
}

func TestProductsAPI_BadRequests(t *testing.T) {
	e := setupEcho(t)
	for name, params := range map[string]url.Values{
		"first too large": {"first": {"1000"}},
		"first not int":   {"first": {"many"}},
		"bad cursor":      {"after": {"garbage"}},
	} {
		t.Run(name, func(t *testing.T) {
			rec, _ := get(t, e, params)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}
