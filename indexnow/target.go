package indexnow

import (
	"net/http"
	"net/url"
	"strings"
)

// Target is the site a submission is made for.
type Target struct {
	Origin string // scheme://host
	Host   string
}

// ResolveTarget derives the public origin of the request, preferring the
// proxy forwarding headers. Only the first value of a comma-separated
// header counts; the scheme defaults to https.
func ResolveTarget(r *http.Request) Target {
	proto := firstValue(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		proto = "https"
	}
	host := firstValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = firstValue(r.Host)
	}
	return Target{Origin: proto + "://" + host, Host: host}
}

// TargetFromURL builds a Target from a configured site URL such as
// "https://example.com/".
func TargetFromURL(siteURL string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(siteURL))
	if err != nil {
		return Target{}, err
	}
	if u.Scheme == "" || u.Host == "" {
		return Target{}, &url.Error{Op: "parse", URL: siteURL, Err: errNotAbsolute}
	}
	return Target{Origin: u.Scheme + "://" + u.Host, Host: u.Host}, nil
}

func firstValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
