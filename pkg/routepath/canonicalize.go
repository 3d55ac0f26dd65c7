package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result contains the outcome of path canonicalization.
type Result struct {
	// Path is the canonical path (no query, no fragment).
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed indicates the path differs from the input path.
	Changed bool
}

// Canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// Canonicalize normalizes a request path:
//   - strips the fragment and splits off the query
//   - adds a leading slash, collapses repeated slashes
//   - drops "." segments and resolves ".." segments
//   - removes the trailing slash except for "/"
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected.
func Canonicalize(input string) (Result, error) {
	input = StripFragment(input)
	path, query := SplitPathAndQuery(input)
	if path == "" {
		return Result{Path: "/", Query: query, Changed: true}, nil
	}

	if strings.Contains(path, `\`) {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	canonical := "/" + strings.Join(segments, "/")
	return Result{
		Path:    canonical,
		Query:   query,
		Changed: canonical != path,
	}, nil
}

// ValidateNavPath canonicalizes a client-supplied navigation target.
// Targets must be relative paths: absolute and protocol-relative URLs are
// rejected so a live session can never be pointed off-site.
func ValidateNavPath(path string) (string, error) {
	if strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") ||
		!strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	res, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	if res.Query != "" {
		return res.Path + "?" + res.Query, nil
	}
	return res.Path, nil
}

// SplitPathAndQuery splits input at the first "?".
// The query is returned without the leading "?".
func SplitPathAndQuery(input string) (path, query string) {
	path, query, _ = strings.Cut(input, "?")
	return path, query
}

// StripFragment removes a "#fragment" suffix.
func StripFragment(input string) string {
	if i := strings.IndexByte(input, '#'); i >= 0 {
		return input[:i]
	}
	return input
}

// Segments returns the non-empty "/"-separated segments of path, in order.
// The query string and fragment are ignored.
func Segments(path string) []string {
	path, _ = SplitPathAndQuery(StripFragment(path))
	if path == "" {
		return nil
	}
	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// DecodeSegment percent-decodes one segment, returning the input unchanged
// when it is not validly encoded.
func DecodeSegment(segment string) string {
	if !strings.Contains(segment, "%") {
		return segment
	}
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return decoded
}

// validatePercentEscapes checks that every "%" starts a %XX hex escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
