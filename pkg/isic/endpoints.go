package isic

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the root of the ISIC Archive v2 API
	BaseURL = "https://api.isic-archive.com/api/v2"

	// SearchEndpoint is the images search path below the base URL
	SearchEndpoint = "/images/search/"

	// DefaultPageSize is the number of records requested per page
	DefaultPageSize = 50
)

// Query describes the first page of a diagnosis search
type Query struct {
	Diagnosis string
	Offset    int
	PageSize  int
}

// DiagnosisTerm builds the exact-phrase search term for a diagnosis
func DiagnosisTerm(diagnosis string) string {
	return fmt.Sprintf(`diagnosis:"%s"`, diagnosis)
}

// EncodeQuery percent-encodes params the way the search endpoint expects:
// standard query encoding with spaces as %20 instead of +. A literal plus
// in a value is already %2B after encoding, so the replacement only hits spaces.
func EncodeQuery(params url.Values) string {
	return strings.ReplaceAll(params.Encode(), "+", "%20")
}

// GetSearchURL constructs the URL of the first search page
func GetSearchURL(baseURL string, q Query) string {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageSize))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("query", DiagnosisTerm(q.Diagnosis))

	return strings.TrimRight(baseURL, "/") + SearchEndpoint + "?" + EncodeQuery(params)
}
