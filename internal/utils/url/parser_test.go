package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.pinterest.com/user/board",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://x.test/a/b/?q=1", "https://x.test/a/b"},
		{"https://x.test/a/b/", "https://x.test/a/b"},
		{"https://x.test/a/b", "https://x.test/a/b"},
		{"https://x.test/a/b?q=1&r=/", "https://x.test/a/b"},
		{"https://x.test/a/b//", "https://x.test/a/b"},
		{"https://", "https://"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Canonicalize(tt.in)
		if got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Canonicalize(got); again != got {
			t.Errorf("Canonicalize not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := map[string]string{
		"pinterest.com/user/board":        "https://pinterest.com/user/board",
		"//pinterest.com/user/board":      "https://pinterest.com/user/board",
		"http://pinterest.com/user/board": "http://pinterest.com/user/board",
		"  https://pinterest.com/u/b  ":   "https://pinterest.com/u/b",
	}
	for in, want := range tests {
		if got := EnsureScheme(in); got != want {
			t.Errorf("EnsureScheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasMarker(t *testing.T) {
	if !HasMarker("https://br.PINTEREST.com/u/b", "pinterest.com") {
		t.Error("expected marker to match case-insensitively")
	}
	if HasMarker("https://example.com/u/b", "pinterest.com") {
		t.Error("expected marker to be missing")
	}
	if HasMarker("https://example.com", "") {
		t.Error("empty marker must never match")
	}
}
