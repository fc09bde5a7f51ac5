package indexnow

import (
	"net/url"
	"regexp"
	"strings"
)

// locPattern pulls <loc> text out of a sitemap. This is not an XML parser:
// CDATA sections, entities and namespaced tags are not understood.
var locPattern = regexp.MustCompile(`(?i)<loc>\s*([^<\s]+)\s*</loc>`)

// ExtractLocs returns the distinct <loc> values of a sitemap document in
// the order they first appear.
func ExtractLocs(xml string) []string {
	var urls []string
	seen := make(map[string]struct{})
	for _, m := range locPattern.FindAllStringSubmatch(xml, -1) {
		u := strings.TrimSpace(m[1])
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

// FilterHost keeps the absolute URLs whose host equals host. URLs that do
// not parse are dropped.
func FilterHost(urls []string, host string) []string {
	filtered := make([]string, 0, len(urls))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		if urlHost(u) == host {
			filtered = append(filtered, raw)
		}
	}
	return filtered
}

// urlHost returns host[:port] lower-cased with the scheme's default port
// removed, the way browsers report URL.host.
func urlHost(u *url.URL) string {
	h := strings.ToLower(u.Host)
	switch strings.ToLower(u.Scheme) {
	case "https":
		h = strings.TrimSuffix(h, ":443")
	case "http":
		h = strings.TrimSuffix(h, ":80")
	}
	return h
}
