// Package hydration pulls the server-rendered router state out of an
// advert page. The page embeds it as
//
//	window.__staticRouterHydrationData = JSON.parse("...");
//
// inside a plain <script> tag. There is no schema for this; any change to
// the marker or the call syntax on the site surfaces here as ErrNoData.
package hydration

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	Marker = "window.__staticRouterHydrationData"

	parseCall = "JSON.parse("
	callEnd   = ");"
)

// ErrNoData means no script carried the marker together with a
// JSON.parse call.
var ErrNoData = errors.New("hydration data not found")

func Extract(html string) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var (
		literal string
		found   bool
	)
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, Marker) {
			return true
		}
		lit, ok := callArgument(text)
		if !ok {
			return true
		}
		literal, found = lit, true
		return false
	})
	if !found {
		return nil, ErrNoData
	}

	payload, err := Unquote(literal)
	if err != nil {
		return nil, fmt.Errorf("hydration literal: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("hydration json: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("hydration json: not an object")
	}
	return out, nil
}

// callArgument returns the source text of the first argument of the first
// JSON.parse call in script.
func callArgument(script string) (string, bool) {
	start := strings.Index(script, parseCall)
	if start == -1 {
		return "", false
	}
	rest := script[start+len(parseCall):]

	trimmed := strings.TrimLeft(rest, " \t\r\n")
	if trimmed != "" {
		if end, ok := literalEnd(trimmed); ok {
			return trimmed[:end], true
		}
	}

	// not a plain string literal; cut at the closing call and let
	// Unquote report what it finds
	if end := strings.Index(rest, callEnd); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// literalEnd returns the index just past the closing quote of the string
// literal s starts with.
func literalEnd(s string) (int, bool) {
	q := s[0]
	if q != '"' && q != '\'' {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i + 1, true
		}
	}
	return 0, false
}
