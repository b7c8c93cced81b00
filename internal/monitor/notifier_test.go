package monitor

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"finnparser/internal/domain/models"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Log: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := n.Notify(context.Background(), models.SearchResult{
		ID:           "42",
		Title:        "Sofa",
		Price:        1500,
		CurrencyCode: "NOK",
		Location:     "Bergen",
		URL:          "https://www.finn.no/recommerce/forsale/item/42",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"advert found"`, `"advert_id":"42"`, `"title":"Sofa"`, `"currency":"NOK"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}
