package mapper

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"finnparser/internal/apis/finn/responses"
)

func searchDocs(t *testing.T) []responses.Doc {
	t.Helper()
	raw := loadState(t, "search_page.json")
	var docs []responses.Doc
	for _, d := range raw["docs"].([]any) {
		docs = append(docs, d.(map[string]any))
	}
	return docs
}

func TestSearchResults(t *testing.T) {
	got, err := SearchResults(searchDocs(t))
	if err != nil {
		t.Fatalf("SearchResults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}

	first := got[0]
	if first.ID != "400000002" || first.Title != "Sofa 3-seter" {
		t.Errorf("first = %+v", first)
	}
	if first.Image == nil || first.ImageURL == nil || *first.ImageURL != "https://images.example/sofa.jpg" {
		t.Errorf("image = %+v", first.Image)
	}
	if first.Price != 1500 || first.CurrencyCode != "NOK" {
		t.Errorf("price = %v %s", first.Price, first.CurrencyCode)
	}
	if want := time.UnixMilli(1714644930000).UTC(); !first.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", first.Timestamp, want)
	}
	if len(first.Labels) != 1 || first.Labels[0].Text != "Fiks ferdig" {
		t.Errorf("Labels = %+v", first.Labels)
	}

	second := got[1]
	if second.ID != "400000001" {
		t.Errorf("numeric id not normalised: %q", second.ID)
	}
	if second.Image != nil || second.ImageURL != nil {
		t.Errorf("image should be absent: %+v", second.Image)
	}
	if second.Coordinates.Lat != 63.43 {
		t.Errorf("Coordinates = %+v", second.Coordinates)
	}
}

func TestSearchResultsKeepsCountAndOrder(t *testing.T) {
	base := searchDocs(t)[1]
	for _, k := range []int{0, 1, 7} {
		docs := make([]responses.Doc, 0, k)
		for i := 0; i < k; i++ {
			d := make(map[string]any, len(base))
			for key, v := range base {
				d[key] = v
			}
			d["id"] = fmt.Sprintf("id-%d", i)
			docs = append(docs, d)
		}

		got, err := SearchResults(docs)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if len(got) != k {
			t.Fatalf("k=%d: len = %d", k, len(got))
		}
		for i, r := range got {
			if r.ID != fmt.Sprintf("id-%d", i) {
				t.Errorf("k=%d: got[%d].ID = %q", k, i, r.ID)
			}
		}
	}
}

func TestSearchResultMalformed(t *testing.T) {
	docs := searchDocs(t)
	delete(docs[1]["price"].(map[string]any), "currency_code")

	_, err := SearchResults(docs)
	var mp *MalformedPayloadError
	if !errors.As(err, &mp) {
		t.Fatalf("err = %v, want MalformedPayloadError", err)
	}
	if mp.Field != "price.currency_code" {
		t.Errorf("Field = %q", mp.Field)
	}
}

func TestSearchResultBadFlag(t *testing.T) {
	docs := searchDocs(t)
	docs[0]["flags"] = []any{"ok", 3}

	_, err := SearchResult(docs[0])
	var mp *MalformedPayloadError
	if !errors.As(err, &mp) || mp.Field != "flags[1]" {
		t.Fatalf("err = %v", err)
	}
}
