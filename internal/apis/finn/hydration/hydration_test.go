package hydration

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func page(scripts ...string) string {
	var b strings.Builder
	b.WriteString("<!doctype html><html><head><title>FINN</title></head><body><div id=\"root\"></div>")
	for _, s := range scripts {
		b.WriteString("<script>")
		b.WriteString(s)
		b.WriteString("</script>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func stateScript(payload string) string {
	return Marker + " = JSON.parse(" + strconv.Quote(payload) + ");"
}

func TestExtract(t *testing.T) {
	html := page(
		`window.dataLayer = [];`,
		stateScript(`{"loaderData":{"item-recommerce":{"itemData":{"title":"Sykkel \"Trek\"","price":6500}}}}`),
	)

	got, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	item := got["loaderData"].(map[string]any)["item-recommerce"].(map[string]any)["itemData"].(map[string]any)
	if item["title"] != `Sykkel "Trek"` {
		t.Errorf("title = %v", item["title"])
	}
	if item["price"].(interface{ String() string }).String() != "6500" {
		t.Errorf("price = %v", item["price"])
	}
}

func TestExtractSingleQuoted(t *testing.T) {
	html := page(Marker + ` = JSON.parse('{"a":"it\'s","b":"\u00f8l"}');`)

	got, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got["a"] != "it's" || got["b"] != "øl" {
		t.Errorf("got %v", got)
	}
}

func TestExtractCallEndInsideLiteral(t *testing.T) {
	html := page(stateScript(`{"note":"closing \");\" inside"}`))

	got, err := Extract(html)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got["note"] != `closing ");" inside` {
		t.Errorf("note = %v", got["note"])
	}
}

func TestExtractNoData(t *testing.T) {
	tests := map[string]string{
		"no scripts":       page(),
		"no marker":        page(`var x = JSON.parse("{}");`),
		"marker, no parse": page(Marker + ` = {"loaderData":{}};`),
	}
	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(html)
			if !errors.Is(err, ErrNoData) {
				t.Fatalf("err = %v, want ErrNoData", err)
			}
		})
	}
}

func TestExtractBadPayload(t *testing.T) {
	tests := map[string]string{
		"invalid json":   page(stateScript(`{"loaderData":`)),
		"not an object":  page(stateScript(`null`)),
		"not a literal":  page(Marker + ` = JSON.parse(window.raw);`),
		"broken literal": page(Marker + ` = JSON.parse("abc\`),
	}
	for name, html := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(html)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNoData) {
				t.Fatalf("err = %v, want a parse error", err)
			}
		})
	}
}
