package urlutil

import (
	"reflect"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.next.co.uk/style/su493564/ak3912",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///", "not a url"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveAll(t *testing.T) {
	base := "https://www.next.co.uk/"
	in := []string{
		"/nxtcms/resource/image1.jpg",
		"https://xcdn.next.co.uk/common/items/default/default/itemimages/3_4Ratio/product/lge/AK3912s.jpg",
		"img/thumb2.jpg",
	}
	want := []string{
		"https://www.next.co.uk/nxtcms/resource/image1.jpg",
		"https://xcdn.next.co.uk/common/items/default/default/itemimages/3_4Ratio/product/lge/AK3912s.jpg",
		"https://www.next.co.uk/img/thumb2.jpg",
	}

	got := ResolveAll(base, in)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected resolution:\n got  %#v\n want %#v", got, want)
	}

	if empty := ResolveAll(base, nil); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestHost(t *testing.T) {
	if h := Host("https://www.next.co.uk/style/x"); h != "www.next.co.uk" {
		t.Errorf("expected www.next.co.uk, got %q", h)
	}
	if h := Host("::bad"); h != "" {
		t.Errorf("expected empty host, got %q", h)
	}
}
