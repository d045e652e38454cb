package talks

import (
	"net/url"
	"strings"
)

// Kind identifies which talks endpoint a Query targets.
type Kind int

const (
	KindAll Kind = iota
	KindCategory
	KindTitle
	KindSpeaker
)

func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindTitle:
		return "title"
	case KindSpeaker:
		return "speaker"
	default:
		return "all"
	}
}

// Query selects the set of talks to fetch. The zero value fetches all talks.
type Query struct {
	kind  Kind
	value string
}

// AllTalks returns the unfiltered query, served by /api/talks.
func AllTalks() Query {
	return Query{kind: KindAll}
}

// ByCategory returns a query for the talks in the given category.
func ByCategory(name string) Query {
	return Query{kind: KindCategory, value: name}
}

// ByTitle returns a query for the talks whose title contains the given term.
func ByTitle(term string) Query {
	return Query{kind: KindTitle, value: term}
}

// BySpeaker returns a query for the talks whose speakers match the given name.
func BySpeaker(name string) Query {
	return Query{kind: KindSpeaker, value: name}
}

func (q Query) Kind() Kind {
	return q.kind
}

func (q Query) Value() string {
	return q.value
}

// Path returns the API path for the query, with the value percent-encoded.
//
//	AllTalks()            -> /api/talks
//	ByCategory("Cloud")   -> /api/talks/category/Cloud
//	ByTitle("go tests")   -> /api/talks/search?title=go%20tests
//	BySpeaker("Ada")      -> /api/talks/speaker?name=Ada
func (q Query) Path() string {
	switch q.kind {
	case KindCategory:
		return "/api/talks/category/" + url.PathEscape(q.value)
	case KindTitle:
		return "/api/talks/search?title=" + escapeComponent(q.value)
	case KindSpeaker:
		return "/api/talks/speaker?name=" + escapeComponent(q.value)
	default:
		return "/api/talks"
	}
}

func (q Query) String() string {
	return q.Path()
}

// escapeComponent percent-encodes a query value, using %20 for spaces
// instead of the form-encoding '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
