package mapper

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"finnparser/internal/apis/finn/responses"
)

type MalformedPayloadError = responses.MalformedPayloadError

// node reads fields out of one JSON object. The first failed required
// read is stored in *err; later reads on any node sharing err become no-ops.
type node struct {
	m    map[string]any
	path string
	err  *error
}

func newNode(m map[string]any, path string, err *error) node {
	return node{m: m, path: path, err: err}
}

func (n node) at(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "." + key
}

func (n node) failed() bool {
	return *n.err != nil
}

func (n node) fail(field string) {
	if *n.err == nil {
		*n.err = &MalformedPayloadError{Field: field}
	}
}

// has reports whether key is present and not null.
func (n node) has(key string) bool {
	v, ok := n.m[key]
	return ok && v != nil
}

func (n node) get(key string) (any, bool) {
	if n.failed() {
		return nil, false
	}
	v, ok := n.m[key]
	if !ok || v == nil {
		n.fail(n.at(key))
		return nil, false
	}
	return v, true
}

func (n node) object(key string) node {
	v, ok := n.get(key)
	if !ok {
		return node{path: n.at(key), err: n.err}
	}
	m, ok := v.(map[string]any)
	if !ok {
		n.fail(n.at(key))
	}
	return node{m: m, path: n.at(key), err: n.err}
}

func (n node) list(key string) []any {
	v, ok := n.get(key)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		n.fail(n.at(key))
		return nil
	}
	return arr
}

func (n node) str(key string) string {
	v, ok := n.get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		n.fail(n.at(key))
	}
	return s
}

func (n node) optStr(key string) string {
	if !n.has(key) {
		return ""
	}
	return n.str(key)
}

func (n node) boolean(key string) bool {
	v, ok := n.get(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		n.fail(n.at(key))
	}
	return b
}

func (n node) float(key string) float64 {
	v, ok := n.get(key)
	if !ok {
		return 0
	}
	f, ok := asFloat(v)
	if !ok {
		n.fail(n.at(key))
	}
	return f
}

func (n node) optFloat(key string) float64 {
	if !n.has(key) {
		return 0
	}
	return n.float(key)
}

func (n node) optInt(key string) int {
	return int(math.Round(n.optFloat(key)))
}

// id reads an identifier that may be encoded as a JSON string or number.
func (n node) id(key string) string {
	v, ok := n.get(key)
	if !ok {
		return ""
	}
	s, ok := asNumberString(v)
	if !ok {
		n.fail(n.at(key))
	}
	return s
}

func (n node) elem(arr []any, i int) node {
	field := fmt.Sprintf("%s[%d]", n.path, i)
	m, ok := arr[i].(map[string]any)
	if !ok {
		n.fail(field)
	}
	return node{m: m, path: field, err: n.err}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func asNumberString(v any) (string, bool) {
	switch t := v.(type) {
	case json.Number:
		return t.String(), true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case string:
		if t != "" {
			return t, true
		}
	}
	return "", false
}

// text renders any decoded JSON value as display text.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			parts = append(parts, text(it))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, _ := json.Marshal(t)
		return string(b)
	}
	if s, ok := asNumberString(v); ok {
		return s
	}
	return fmt.Sprint(v)
}
