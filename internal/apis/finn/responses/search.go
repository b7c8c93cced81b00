package responses

// Doc is a single raw search hit as decoded from the search API.
type Doc = map[string]any

type SearchPage struct {
	Docs []Doc
	Raw  map[string]any
}

// Metadata returns the "metadata" object of the response, if any.
func (p SearchPage) Metadata() map[string]any {
	m, _ := p.Raw["metadata"].(map[string]any)
	return m
}
