package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finnparser/internal/apis/finn/responses"
)

const (
	DefaultSort     = "PUBLISHED_DESC"
	DefaultSearchID = "SEARCH_ID_BAP_COMMON"

	searchPageLimit = 4 * 1024 * 1024
)

// SearchParams describes one request to the search endpoint.
// Query is sent only when non-nil (an empty query is still sent),
// Page only when > 0. Filters are merged in last, verbatim.
type SearchParams struct {
	Query   *string
	Sort    string
	Filters url.Values
	Page    int
}

// Values builds the query string. The second result lists filter keys
// that replaced one of the reserved parameters.
func (p SearchParams) Values() (url.Values, []string) {
	q := url.Values{}

	sort := strings.TrimSpace(p.Sort)
	if sort == "" {
		sort = DefaultSort
	}
	q.Set("sort", sort)

	if p.Query != nil {
		q.Set("query", *p.Query)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}

	var collisions []string
	for k, vs := range p.Filters {
		if _, reserved := q[k]; reserved {
			collisions = append(collisions, k)
		}
		q[k] = append([]string(nil), vs...)
	}

	return q, collisions
}

func (c *Client) FetchSearchPage(ctx context.Context, searchID string, params SearchParams) (responses.SearchPage, error) {
	if searchID == "" {
		searchID = DefaultSearchID
	}

	q, _ := params.Values()
	req, err := c.newReq(ctx, http.MethodGet, "/recommerce-search-page/api/search/"+url.PathEscape(searchID), q)
	if err != nil {
		return responses.SearchPage{}, err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return responses.SearchPage{}, err
	}

	b, err := readLimited(resp, searchPageLimit)
	if err != nil {
		return responses.SearchPage{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return responses.SearchPage{}, ParseAPIError(resp.StatusCode, []byte(strings.TrimSpace(string(b))))
	}

	var raw map[string]any
	if err := decodeJSON(b, &raw); err != nil {
		return responses.SearchPage{}, fmt.Errorf("FetchSearchPage: bad json body=%s", string(b[:min(len(b), 1024)]))
	}

	arr, ok := raw["docs"].([]any)
	if !ok {
		return responses.SearchPage{}, &responses.MalformedPayloadError{Field: "docs"}
	}

	docs := make([]responses.Doc, 0, len(arr))
	for i, it := range arr {
		m, ok := it.(map[string]any)
		if !ok {
			return responses.SearchPage{}, &responses.MalformedPayloadError{Field: fmt.Sprintf("docs[%d]", i)}
		}
		docs = append(docs, m)
	}

	return responses.SearchPage{Docs: docs, Raw: raw}, nil
}
