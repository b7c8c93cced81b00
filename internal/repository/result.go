package repository

import (
	"finnparser/internal/domain/models"
)

type SearchMeta struct {
	Query   string              `json:"query,omitempty"`
	Sort    string              `json:"sort,omitempty"`
	Filters map[string][]string `json:"filters,omitempty"`
	Pages   int                 `json:"pages,omitempty"`
}

type SearchResult struct {
	FetchedAt string                `json:"fetched_at"`
	Search    *SearchMeta           `json:"search,omitempty"`
	Results   []models.SearchResult `json:"results"`
	Count     int                   `json:"count"`
}

type AdvertsResult struct {
	FetchedAt string          `json:"fetched_at"`
	Adverts   []models.Advert `json:"adverts"`
	Missing   []string        `json:"missing,omitempty"`
	Count     int             `json:"count"`
}
