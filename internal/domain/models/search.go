package models

import (
	"fmt"
	"time"
)

type SearchImage struct {
	URL         string  `json:"url"`
	Path        string  `json:"path,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	AspectRatio float64 `json:"aspect_ratio,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Label struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// SearchResult is the summary record returned by the search endpoint,
// one per matching advert.
type SearchResult struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Location     string       `json:"location"`
	URL          string       `json:"url"`
	Image        *SearchImage `json:"image,omitempty"`
	ImageURL     *string      `json:"image_url,omitempty"`
	Flags        []string     `json:"flags"`
	Labels       []Label      `json:"labels"`
	Timestamp    time.Time    `json:"timestamp"`
	Coordinates  Coordinates  `json:"coordinates"`
	Price        float64      `json:"price"`
	CurrencyCode string       `json:"currency_code"`
	TradeType    string       `json:"trade_type"`
}

func (r SearchResult) String() string {
	return fmt.Sprintf("%s (%g %s) - %s (%s)",
		r.Title, r.Price, r.CurrencyCode, r.Location, r.Timestamp.Format(time.RFC3339))
}
