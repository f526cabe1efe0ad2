// Package search queries a web search engine and turns raw hits into
// compact research notes for the researcher agent.
package search

import "context"

// Result is one raw search hit.
type Result struct {
	Title string
	Body  string
	Link  string
}

// Searcher runs a single query against a search backend.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
