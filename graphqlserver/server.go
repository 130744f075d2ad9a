package graphqlserver

import (
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"storefront.GO/graphql"
	"storefront.GO/graphql/registry"
	_ "storefront.GO/graphql/resolvers"
)

// NewSchema parses the schema with the registered Query resolver as root.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), registry.GetQueryResolver(db), gql.UseFieldResolvers())
}

// NewSchemaWithResolver parses the schema against a custom root (for tests with mocks).
func NewSchemaWithResolver(root interface{}) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), root, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
