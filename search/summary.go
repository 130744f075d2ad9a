package search

import "fmt"

// Summary is the line shown above the results. It is empty when there is no
// text query.
func Summary(query string, count int) string {
	if query == "" {
		return ""
	}
	if count == 0 {
		return fmt.Sprintf("There are no products that match %q", query)
	}
	word := "result"
	if count > 1 {
		word = "results"
	}
	return fmt.Sprintf("Showing %d %s for %q", count, word, query)
}
