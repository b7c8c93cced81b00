package query

import (
	"fmt"
	"net/http"
	"strconv"
)

func Int(r *http.Request, key string) (val int, present bool, err error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s must be integer", key)
	}
	return n, true, nil
}

// String returns the value of key and whether the key was given at all,
// so "?query=" and no query can be told apart.
func String(r *http.Request, key string) (*string, bool) {
	vals, ok := r.URL.Query()[key]
	if !ok {
		return nil, false
	}
	v := ""
	if len(vals) > 0 {
		v = vals[0]
	}
	return &v, true
}
