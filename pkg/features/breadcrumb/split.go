package breadcrumb

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vango-dev/crumbtrail/pkg/routepath"
)

// DefaultHomeLabel is the display name of the home entry.
const DefaultHomeLabel = "Home"

// Splitter turns a path into a breadcrumb list.
type Splitter struct {
	// HomeLabel names the home entry. Empty means DefaultHomeLabel.
	HomeLabel string
}

var defaultSplitter = Splitter{}

// Split splits path with the default home label.
//
//	Split("/menu/my-products")
//	// [{"" Home /} {/menu Menu /menu} {/menu/my-products My Products /menu/my-products}]
func Split(path string) List {
	return defaultSplitter.Split(path)
}

// Split returns the home entry followed by one entry per non-empty path
// segment. The query string and fragment are ignored. Split never fails:
// any string produces at least the home entry.
func (s Splitter) Split(path string) List {
	segments := routepath.Segments(path)

	list := make(List, 0, len(segments)+1)
	list = append(list, Segment{
		Key:         HomeKey,
		DisplayName: s.homeLabel(),
		Href:        "/",
	})

	var href strings.Builder
	for _, seg := range segments {
		href.WriteByte('/')
		href.WriteString(seg)
		h := href.String()
		list = append(list, Segment{
			Key:         h,
			DisplayName: CleanName(seg),
			Href:        h,
		})
	}
	return list
}

func (s Splitter) homeLabel() string {
	if s.HomeLabel == "" {
		return DefaultHomeLabel
	}
	return s.HomeLabel
}

// CleanName turns a raw path segment into a label: percent escapes are
// decoded, dashes and underscores become spaces, and every letter or digit
// that starts a word is upper-cased. A word is a run of letters, digits and
// combining marks, so "foo.bar" has two words and "15abc" has one. The rest
// of each word keeps its case.
//
//	CleanName("my-page")   // "My Page"
//	CleanName("iPhone_15") // "IPhone 15"
//	CleanName("foo.bar")   // "Foo.Bar"
func CleanName(segment string) string {
	name := routepath.DecodeSegment(segment)
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	upper := cases.Upper(language.Und)
	var b strings.Builder
	b.Grow(len(name))
	inWord := false
	for _, r := range name {
		word := isWordRune(r)
		if word && !inWord {
			b.WriteString(upper.String(string(r)))
		} else {
			b.WriteRune(r)
		}
		inWord = word
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
