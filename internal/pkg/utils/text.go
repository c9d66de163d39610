package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeAddress lowercases an address, trims it, and collapses any run of
// whitespace to a single space. Empty input yields an empty string.
func NormalizeAddress(address string) string {
	if address == "" {
		return ""
	}
	return spaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(address)), " ")
}

// ExtractDomain pulls the host out of a possibly schemeless URL, lowercased
// and with a leading "www." stripped. The second return value is false when
// no domain could be extracted; that is not an error.
func ExtractDomain(rawURL string) (string, bool) {
	if rawURL == "" {
		return "", false
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")
	if domain == "" {
		return "", false
	}
	return domain, true
}
