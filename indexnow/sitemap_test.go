package indexnow

import (
	"net/http/httptest"
	"reflect"
	"testing"
)

const sampleSitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://a.com/</loc><changefreq>daily</changefreq></url>
  <url>
    <LOC>
      https://a.com/blog/hello
    </LOC>
  </url>
  <url><loc>https://b.com/y</loc></url>
  <url><loc>https://a.com/</loc></url>
  <url><loc></loc></url>
</urlset>`

func TestExtractLocs(t *testing.T) {
	got := ExtractLocs(sampleSitemap)
	want := []string{"https://a.com/", "https://a.com/blog/hello", "https://b.com/y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLocs = %v, want %v", got, want)
	}
}

func TestExtractLocsNone(t *testing.T) {
	if got := ExtractLocs("<urlset></urlset>"); len(got) != 0 {
		t.Errorf("expected no urls, got %v", got)
	}
	if got := ExtractLocs("not xml at all"); len(got) != 0 {
		t.Errorf("expected no urls, got %v", got)
	}
}

func TestFilterHost(t *testing.T) {
	got := FilterHost([]string{"https://a.com/x", "https://b.com/y"}, "a.com")
	if !reflect.DeepEqual(got, []string{"https://a.com/x"}) {
		t.Errorf("FilterHost = %v", got)
	}
}

func TestFilterHostDropsUnparsableAndRelative(t *testing.T) {
	urls := []string{
		"/relative/path",
		"a.com/no-scheme",
		"https://a.com:443/default-port",
		"https://A.COM/upper",
		"http://a.com:8080/other-port",
		"https://[::1/bad",
	}
	got := FilterHost(urls, "a.com")
	want := []string{"https://a.com:443/default-port", "https://A.COM/upper"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterHost = %v, want %v", got, want)
	}
}

func TestFilterHostEmptyHostMatchesNothing(t *testing.T) {
	if got := FilterHost([]string{"/x", "https://a.com/"}, ""); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		proto      string
		fwdHost    string
		wantOrigin string
		wantHost   string
	}{
		{"direct host defaults to https", "blog.example.com", "", "", "https://blog.example.com", "blog.example.com"},
		{"forwarded headers win", "internal:3000", "http", "blog.example.com", "http://blog.example.com", "blog.example.com"},
		{"proxy chain keeps first value", "internal:3000", "https, http", "blog.example.com, proxy.local", "https://blog.example.com", "blog.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/get_indexnow", nil)
			req.Host = tt.host
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.fwdHost != "" {
				req.Header.Set("X-Forwarded-Host", tt.fwdHost)
			}
			got := ResolveTarget(req)
			if got.Origin != tt.wantOrigin || got.Host != tt.wantHost {
				t.Errorf("ResolveTarget = %+v, want {%s %s}", got, tt.wantOrigin, tt.wantHost)
			}
		})
	}
}

func TestTargetFromURL(t *testing.T) {
	got, err := TargetFromURL("https://www.example.com/blog/")
	if err != nil {
		t.Fatalf("TargetFromURL failed: %v", err)
	}
	if got.Origin != "https://www.example.com" || got.Host != "www.example.com" {
		t.Errorf("TargetFromURL = %+v", got)
	}
	if _, err := TargetFromURL("example.com"); err == nil {
		t.Error("expected error for a URL without scheme")
	}
}
