package routepath

import (
	"errors"
	"reflect"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
		wantErr     error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "no leading slash", input: "about", wantPath: "/about", wantChanged: true},
		{name: "collapse slashes", input: "/menu//products", wantPath: "/menu/products", wantChanged: true},
		{name: "single dot", input: "/menu/./products", wantPath: "/menu/products", wantChanged: true},
		{name: "double dot", input: "/menu/products/../drinks", wantPath: "/menu/drinks", wantChanged: true},
		{name: "double dot to root", input: "/menu/../", wantPath: "/", wantChanged: true},
		{name: "trailing slash", input: "/menu/", wantPath: "/menu", wantChanged: true},
		{name: "query preserved", input: "/menu?sort=asc", wantPath: "/menu", wantQuery: "sort=asc"},
		{name: "fragment dropped", input: "/menu#top", wantPath: "/menu"},
		{name: "valid escape", input: "/caf%C3%A9", wantPath: "/caf%C3%A9"},
		{name: "backslash", input: `/menu\products`, wantErr: ErrBackslashInPath},
		{name: "nul literal", input: "/menu\x00", wantErr: ErrNullByteInPath},
		{name: "nul encoded", input: "/menu%00", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/menu%G1", wantErr: ErrInvalidPercentEscape},
		{name: "short escape", input: "/menu%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Canonicalize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize(%q) unexpected error: %v", tt.input, err)
			}
			if got.Path != tt.wantPath || got.Query != tt.wantQuery || got.Changed != tt.wantChanged {
				t.Errorf("Canonicalize(%q) = %+v, want path=%q query=%q changed=%v",
					tt.input, got, tt.wantPath, tt.wantQuery, tt.wantChanged)
			}
		})
	}
}

func TestValidateNavPath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "/menu/products/", want: "/menu/products"},
		{input: "/menu?x=1", want: "/menu?x=1"},
		{input: "https://evil.example/", wantErr: true},
		{input: "//evil.example", wantErr: true},
		{input: "menu", wantErr: true},
		{input: "/../x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ValidateNavPath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNavPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateNavPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSegments(t *testing.T) {
	tests := map[string][]string{
		"":              nil,
		"/":             {},
		"/a/b/c":        {"a", "b", "c"},
		"//a///b/":      {"a", "b"},
		"/a/b?c=/d#/e":  {"a", "b"},
		"relative/path": {"relative", "path"},
	}
	for in, want := range tests {
		got := Segments(in)
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Segments(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDecodeSegment(t *testing.T) {
	if got := DecodeSegment("caf%C3%A9"); got != "café" {
		t.Errorf("DecodeSegment = %q, want café", got)
	}
	if got := DecodeSegment("100%"); got != "100%" {
		t.Errorf("invalid escape should be returned unchanged, got %q", got)
	}
}
