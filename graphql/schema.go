package graphql

import (
	"strings"
	"sync"

	_ "embed"
)

//go:embed schema.graphqls
var schemaBase string

var (
	schemaExtensions []string
	schemaMu         sync.Mutex
)

// RegisterSchemaExtension appends schema to the Query. Call from init() in custom packages.
func RegisterSchemaExtension(schema string) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemaExtensions = append(schemaExtensions, strings.TrimSpace(schema))
}

// Schema returns base schema + registered extensions.
func Schema() string {
	schemaMu.Lock()
	ext := schemaExtensions
	schemaMu.Unlock()
	if len(ext) == 0 {
		return schemaBase
	}
	return schemaBase + "\n\n" + strings.Join(ext, "\n\n")
}

// --- Schema arg types (used by resolvers for graphql-go method matching) ---

// ProductsArgs are the products(...) arguments. Schema defaults fill nil values.
type ProductsArgs struct {
	First   int32
	After   *string
	SortKey string
	Reverse bool
	Query   *string
}

type ProductArgs struct {
	Handle string
}

type ExtensionArgs struct {
	Name string
	Args *string
}
