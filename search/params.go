package search

// Params fixes one search session. A different value starts a new session.
type Params struct {
	SortKey string
	Reverse bool
	// Query is the free-text filter; empty means no filter.
	Query string
}

// ResolveParams turns the raw sort slug and query into Params. Unknown slugs
// fall back to the table default.
func ResolveParams(sort, q string, table SortTable) Params {
	opt, ok := table.Lookup(sort)
	if !ok {
		opt = table.Default
	}
	return Params{SortKey: opt.SortKey, Reverse: opt.Reverse, Query: q}
}

func (p Params) request(cursor string, page, first int) Request {
	return Request{
		SortKey: p.SortKey,
		Reverse: p.Reverse,
		Query:   p.Query,
		Cursor:  cursor,
		Page:    page,
		First:   first,
	}
}
