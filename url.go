package convoprint

import (
	"net/url"
	"strings"
)

// allowedHosts is the family of share-link hosts the pipeline accepts.
// Requests for any other host are rejected before network access.
var allowedHosts = map[string]bool{
	"chatgpt.com":     true,
	"chat.openai.com": true,
}

// IsAllowedHost reports whether rawURL points at an allow-listed
// share-link host. Only http and https schemes are accepted, and a
// leading "www." is ignored for matching purposes.
func IsAllowedHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return allowedHosts[host]
}
