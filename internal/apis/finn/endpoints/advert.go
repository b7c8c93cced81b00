package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const advertPageLimit = 8 * 1024 * 1024

// FetchAdvertPage returns the raw HTML of the advert page.
// A 404 yields ErrNotFound.
func (c *Client) FetchAdvertPage(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("FetchAdvertPage: empty advert id")
	}

	req, err := c.newReq(ctx, http.MethodGet, "/recommerce/forsale/item/"+url.PathEscape(id), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Doer.Do(req)
	if err != nil {
		return "", err
	}

	b, err := readLimited(resp, advertPageLimit)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", ParseAPIError(resp.StatusCode, b)
	}

	return string(b), nil
}
