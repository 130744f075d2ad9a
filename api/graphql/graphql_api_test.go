package graphql

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront.GO/catalog"
	graphqlpkg "storefront.GO/graphql"
	"storefront.GO/model/testutil"
	"storefront.GO/search"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.Seed(t, db, testutil.Catalog...)
	e := echo.New()
	require.NoError(t, RegisterGraphQLRoutes(e, db))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestGraphQL_StorefrontClientRoundTrip(t *testing.T) {
	srv := newServer(t)
	client := catalog.NewStorefrontClient(srv.URL+"/graphql", catalog.WithStoreID(1), catalog.WithHTTPClient(srv.Client()))

	var skus []string
	req := search.Request{SortKey: search.SortBestSelling, First: 2, Page: 1}
	for {
		page, err := client.FetchProducts(context.Background(), req)
		require.NoError(t, err)
		for _, p := range page.Products {
			skus = append(skus, p.SKU)
		}
		if len(page.Products) == 0 {
			break
		}
		req.Cursor, req.Page = page.EndCursor, req.Page+1
	}
	assert.Equal(t, []string{"HAT-RED", "SHOE-RED", "SOCK-WHT", "SHOE-BLUE", "BOOT-BLK"}, skus)
}

func TestGraphQL_ControllerScrollsThroughServer(t *testing.T) {
	srv := newServer(t)
	client := catalog.NewStorefrontClient(srv.URL+"/graphql", catalog.WithHTTPClient(srv.Client()))
	c := search.New(client,
		search.WithPageSize(1),
		search.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.NoError(t, c.Search(ctx, search.ResolveParams("price-asc", "shoe", search.DefaultSortTable())))
	idleWith := func(n int) func() bool {
		return func() bool {
			s := c.Snapshot()
			return !s.Loading && len(s.Products) == n
		}
	}
	require.Eventually(t, idleWith(1), 2*time.Second, 5*time.Millisecond)

	c.Scroll(search.Viewport{ScrollTop: 400, Height: 500, ContentHeight: 1000})
	require.Eventually(t, idleWith(2), 2*time.Second, 5*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, "SHOE-RED", snap.Products[0].SKU)
	assert.Equal(t, "SHOE-BLUE", snap.Products[1].SKU)
	assert.Equal(t, `Showing 2 results for "shoe"`, snap.Summary)
}

func TestGraphQL_StoreFromVariables(t *testing.T) {
	var got uint16
	h := storeContextMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = graphqlpkg.StoreIDFromContext(r.Context())
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "__Store", "body must still be readable downstream")
	}))

	r := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{}","variables":{"__Store":"6"}}`))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.EqualValues(t, 6, got)

	r = httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"variables":{"__Store":"6"}}`))
	r.Header.Set("Store", "2")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.EqualValues(t, 2, got)
}

func TestGraphQL_Playground(t *testing.T) {
	srv := newServer(t)
	resp, err := srv.Client().Get(srv.URL + "/playground")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
}
