package mapper

import (
	"fmt"
	"time"

	"finnparser/internal/apis/finn/responses"
	"finnparser/internal/domain/models"
)

// SearchResults maps every doc of a search page, keeping order.
func SearchResults(docs []responses.Doc) ([]models.SearchResult, error) {
	out := make([]models.SearchResult, 0, len(docs))
	for i, d := range docs {
		r, err := SearchResult(d)
		if err != nil {
			return nil, fmt.Errorf("docs[%d]: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func SearchResult(raw map[string]any) (models.SearchResult, error) {
	var err error
	n := newNode(raw, "", &err)

	r := models.SearchResult{
		ID:       n.id("id"),
		Title:    n.str("heading"),
		Location: n.str("location"),
		URL:      n.str("canonical_url"),
	}

	if n.has("image") {
		img := n.object("image")
		si := models.SearchImage{
			URL:         img.str("url"),
			Path:        img.optStr("path"),
			Width:       img.optInt("width"),
			Height:      img.optInt("height"),
			AspectRatio: img.optFloat("aspect_ratio"),
		}
		u := si.URL
		r.Image, r.ImageURL = &si, &u
	}

	flags := n.list("flags")
	r.Flags = make([]string, 0, len(flags))
	for i, f := range flags {
		s, ok := f.(string)
		if !ok {
			n.fail(fmt.Sprintf("flags[%d]", i))
			break
		}
		r.Flags = append(r.Flags, s)
	}

	labels := n.list("labels")
	r.Labels = make([]models.Label, 0, len(labels))
	list := node{path: "labels", err: n.err}
	for i := range labels {
		l := list.elem(labels, i)
		if l.failed() {
			break
		}
		r.Labels = append(r.Labels, models.Label{
			ID:   l.optStr("id"),
			Text: l.optStr("text"),
			Type: l.optStr("type"),
		})
	}

	ms := n.float("timestamp")
	r.Timestamp = time.UnixMilli(int64(ms)).UTC()

	coords := n.object("coordinates")
	r.Coordinates = models.Coordinates{
		Lat: coords.float("lat"),
		Lon: coords.float("lon"),
	}

	price := n.object("price")
	r.Price = price.float("amount")
	r.CurrencyCode = price.str("currency_code")
	r.TradeType = n.str("trade_type")

	if err != nil {
		return models.SearchResult{}, err
	}
	return r, nil
}
