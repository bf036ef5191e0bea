// internal/engine/dynamic/dynamic_test.go
package dynamic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/internal/jsonv"
	"github.com/law-makers/boardid/pkg/models"
)

func TestDecodeProps(t *testing.T) {
	v, err := decodeProps([]byte(`"{\"children\":{\"board_id\":\"549755813888\"}}"`))
	if err != nil {
		t.Fatalf("decodeProps failed: %v", err)
	}
	if got := jsonv.FindKeyText(v, "board_id"); got != "549755813888" {
		t.Errorf("Expected board_id 549755813888, got %q", got)
	}

	for _, raw := range []string{"", "null"} {
		v, err := decodeProps([]byte(raw))
		if err != nil || v != nil {
			t.Errorf("Expected nil for %q, got %v, %v", raw, v, err)
		}
	}

	if _, err := decodeProps([]byte(`{"not":"a string"}`)); err == nil {
		t.Errorf("Expected error for non-string result")
	}
}

func TestJSLiteral(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"__reactProps$", `"__reactProps$"`},
		{`[data-test-id="board-header"]`, `"[data-test-id=\"board-header\"]"`},
		{true, `true`},
		{"</script>", `"\u003c/script\u003e"`},
	}
	for _, tt := range tests {
		if got := jsLiteral(tt.in); got != tt.want {
			t.Errorf("jsLiteral(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestFindChrome_Configured(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	exe := filepath.Join(dir, "chrome")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := FindChrome(exe); got != exe {
		t.Errorf("Expected configured path %s, got %s", exe, got)
	}

	t.Setenv(ChromePathEnv, exe)
	if got := FindChrome(""); got != exe {
		t.Errorf("Expected env path %s, got %s", exe, got)
	}

	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if isExecutable(plain) {
		t.Errorf("Expected non-executable file to be rejected")
	}
	if isExecutable(dir) {
		t.Errorf("Expected directory to be rejected")
	}
}

func TestExtractor_RejectsInvalidURLBeforeBrowser(t *testing.T) {
	ex := New(nil, BrowserPoolOptions{}, nil, "", 0, 0)
	_, err := ex.Extract(context.Background(), models.RequestOptions{URL: "https://example.com/board"})
	if !errors.Is(err, engine.ErrInvalidURL) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}
