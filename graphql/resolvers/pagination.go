package resolvers

import productRepo "storefront.GO/model/repository/product"

func defaultFirst(p *int32) int {
	if p != nil && *p > 0 {
		if *p > productRepo.MaxLimit {
			return productRepo.MaxLimit
		}
		return int(*p)
	}
	return productRepo.DefaultLimit
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
