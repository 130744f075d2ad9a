package graphql

import (
	"bytes"
	"io"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	graphqlpkg "storefront.GO/graphql"
	"storefront.GO/graphqlserver"
)

func RegisterGraphQLRoutes(e *echo.Echo, db *gorm.DB) error {
	schema, err := graphqlserver.NewSchema(db)
	if err != nil {
		return err
	}
	registerRoutes(e, schema)
	return nil
}

// RegisterGraphQLRoutesWithSchema registers /graphql with a custom schema (for tests with mocks).
func RegisterGraphQLRoutesWithSchema(e *echo.Echo, schema *graphql.Schema) {
	registerRoutes(e, schema)
}

func registerRoutes(e *echo.Echo, schema *graphql.Schema) {
	h := storeContextMiddleware(graphqlserver.Handler(schema))
	e.POST("/graphql", echo.WrapHandler(h))
	e.GET("/playground", echo.WrapHandler(playgroundHandler()))
}

// storeContextMiddleware resolves the store from the Store header, the
// __Store query param, then variables.__Store in the POST body.
func storeContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := graphqlpkg.GetStoreID(r)
		if !ok && r.Method == http.MethodPost && r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
			storeID, _ = graphqlpkg.ParseStoreFromVariables(body)
		}
		ctx := graphqlpkg.WithStoreID(r.Context(), storeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playgroundHandler() http.Handler {
	html := `<!DOCTYPE html>
<html>
<head>
	<title>GraphQL Playground</title>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css"/>
</head>
<body>
	<div id="root"/>
	<script src="https://cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
	<script>window.addEventListener('load', function() {
		GraphQLPlayground.init({ endpoint: '/graphql' });
	})</script>
</body>
</html>`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	})
}
