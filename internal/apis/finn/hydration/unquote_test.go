package hydration

import (
	"strconv"
	"testing"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`""`, ""},
		{`''`, ""},
		{`"plain"`, "plain"},
		{`"a\"b"`, `a"b`},
		{`'a\'b'`, "a'b"},
		{`'say "hi"'`, `say "hi"`},
		{`"tab\there"`, "tab\there"},
		{`"line\nbreak\r"`, "line\nbreak\r"},
		{`"\b\f\v\0"`, "\b\f\v\x00"},
		{`"back\\slash"`, `back\slash`},
		{`"a\/b"`, "a/b"},
		{`"\x41\x42"`, "AB"},
		{`"\u00e6\u00f8\u00e5"`, "æøå"},
		{`"\u{1F6B2}"`, "🚲"},
		{`"\ud83d\udeb2"`, "🚲"},
		{`"\ud83d"`, "\uFFFD"},
		{`"\q"`, "q"},
		{"\"con\\\ntinued\"", "continued"},
		{"\"con\\\r\ntinued\"", "continued"},
	}

	for _, tt := range tests {
		got, err := Unquote(tt.in)
		if err != nil {
			t.Errorf("Unquote(%s): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnquoteRoundTrip(t *testing.T) {
	for _, s := range []string{
		`{"title":"Sofa \"Ekebol\"","price":2500}`,
		"multi\nline\ttext",
		`{"path":"C:\\tmp"}`,
		"norsk: æøå ÆØÅ",
	} {
		got, err := Unquote(strconv.Quote(s))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)): %v", s, err)
		}
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestUnquoteErrors(t *testing.T) {
	for _, in := range []string{
		``,
		`"`,
		`abc`,
		`"abc'`,
		`"a"b"`,
		"\"a\nb\"",
		`"abc\"`,
		`"\x4"`,
		`"\xZZ"`,
		`"\u12"`,
		`"\u{110000}"`,
		`"\u{41"`,
	} {
		if _, err := Unquote(in); err == nil {
			t.Errorf("Unquote(%s): expected error", in)
		}
	}
}
