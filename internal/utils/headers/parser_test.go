package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"user-agent: Bot", "Accept: text/html", "Cookie: a=b: c"}
	out, err := ParseHeaders(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{"User-Agent": "Bot", "Accept": "text/html", "Cookie": "a=b: c"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParseHeaders_Invalid(t *testing.T) {
	for _, in := range []string{"BadHeader", ": value", "Bad Name: x"} {
		if _, err := ParseHeaders([]string{in}); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestParseHeaders_Empty(t *testing.T) {
	out, err := ParseHeaders(nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("unexpected result: %#v, %v", out, err)
	}
}
