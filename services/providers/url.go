package providers

import (
	"net/url"
	"strings"
)

// QueryPlaceholder marks where the encoded query goes in an endpoint template.
const QueryPlaceholder = "{query}"

// QueryParam is appended to templates without a placeholder.
const QueryParam = "wd"

// SearchURL returns the request URL for query against this provider.
func (d Descriptor) SearchURL(query string) string {
	encoded := EncodeQuery(query)
	if strings.Contains(d.Endpoint, QueryPlaceholder) {
		return strings.ReplaceAll(d.Endpoint, QueryPlaceholder, encoded)
	}

	sep := "?"
	if strings.Contains(d.Endpoint, "?") {
		sep = "&"
		if strings.HasSuffix(d.Endpoint, "?") || strings.HasSuffix(d.Endpoint, "&") {
			sep = ""
		}
	}
	return d.Endpoint + sep + QueryParam + "=" + encoded
}

// EncodeQuery percent-encodes s for use as a query value, with spaces as %20.
func EncodeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
