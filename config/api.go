package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public catalog reads (storefront search is anonymous)
	return []string{"/api/catalog/products", "/graphql"}
}
