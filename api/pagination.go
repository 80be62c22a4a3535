package api

import khttp "github.com/kochabx/divina/core/net/http"

// PageMeta describes one page of a paginated list.
type PageMeta struct {
	Page            int    `json:"page"`
	Limit           int    `json:"limit"`
	TotalItems      int    `json:"totalItems"`
	TotalPages      int    `json:"totalPages"`
	FirstPageURL    string `json:"firstPageUrl"`
	PreviousPageURL string `json:"previousPageUrl"`
	NextPageURL     string `json:"nextPageUrl"`
	LastPageURL     string `json:"lastPageUrl"`
}

// Page is a paginated list.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageParams selects a page. Zero values are not sent.
type PageParams struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`
}

func (p PageParams) query() *khttp.QueryBuilder {
	return khttp.NewQuery().
		Int("page", p.Page).
		Int("limit", p.Limit).
		String("search", p.Search)
}

func notPaginated() *bool {
	f := false
	return &f
}

func project[T any](items []T, fn func(T) SelectOption) []SelectOption {
	out := make([]SelectOption, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
