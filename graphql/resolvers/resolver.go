package resolvers

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"storefront.GO/config"
	"storefront.GO/graphql"
	gqlregistry "storefront.GO/graphql/registry"
	productRepo "storefront.GO/model/repository/product"
	catalogService "storefront.GO/service/catalog"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(db interface{}) interface{} {
		return NewQueryResolver(db.(*gorm.DB), mediaURL())
	})
}

func mediaURL() string {
	if config.AppConfig != nil {
		return config.AppConfig.MediaUrl
	}
	return ""
}

// QueryResolver is the single resolver for all Query fields.
// Methods live in product.go. New Query fields: use RegisterSchemaExtension
// + add method on QueryResolver, or use _extension for fully dynamic resolvers.
type QueryResolver struct {
	db       *gorm.DB
	mediaURL string
}

func NewQueryResolver(db *gorm.DB, mediaURL string) *QueryResolver {
	return &QueryResolver{db: db, mediaURL: mediaURL}
}

func (r *QueryResolver) storeID(ctx context.Context) uint16 {
	return graphql.StoreIDFromContext(ctx)
}

func (r *QueryResolver) productRepo() *productRepo.ProductRepository {
	return productRepo.GetProductRepository(r.db)
}

func (r *QueryResolver) searchService() *catalogService.SearchService {
	return catalogService.GetSearchService(r.db)
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, args graphql.ExtensionArgs) (*string, error) {
	m := make(map[string]interface{})
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	out, err := gqlregistry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
