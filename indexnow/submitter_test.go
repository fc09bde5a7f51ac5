package indexnow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
)

// fakeSite serves a sitemap for its own host plus a foreign URL.
type fakeSite struct {
	server        *httptest.Server
	sitemapStatus int
	sitemapBody   func(host string) string
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	s := &fakeSite{sitemapStatus: http.StatusOK}
	s.sitemapBody = func(host string) string {
		return fmt.Sprintf(`<urlset>
<url><loc>http://%[1]s/</loc></url>
<url><loc>http://%[1]s/blog/hello</loc></url>
<url><loc>https://other.example/elsewhere</loc></url>
</urlset>`, host)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sitemap.xml" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Accept"); !strings.Contains(got, "application/xml") {
			t.Errorf("sitemap Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(s.sitemapStatus)
		io.WriteString(w, s.sitemapBody(r.Host))
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *fakeSite) host() string {
	return strings.TrimPrefix(s.server.URL, "http://")
}

func (s *fakeSite) target() Target {
	return Target{Origin: s.server.URL, Host: s.host()}
}

// fakeIndex records payloads posted to it.
type fakeIndex struct {
	server   *httptest.Server
	status   int
	mu       sync.Mutex
	payloads []Payload
}

func newFakeIndex(t *testing.T, status int) *fakeIndex {
	t.Helper()
	f := &fakeIndex{status: status}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("index method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("index Content-Type = %q", ct)
		}
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		f.mu.Lock()
		f.payloads = append(f.payloads, p)
		f.mu.Unlock()
		w.WriteHeader(f.status)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// received returns a copy of the payloads recorded so far.
func (f *fakeIndex) received() []Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Payload(nil), f.payloads...)
}

func publicDirWithKey(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, testKey+".txt"), testKey+"\n")
	mustWrite(t, filepath.Join(dir, "robots.txt"), "User-agent: *")
	return dir
}

func TestSubmitSuccess(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusOK)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))

	res, err := s.Submit(context.Background(), site.target())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	want := []string{"http://" + site.host() + "/", "http://" + site.host() + "/blog/hello"}
	if !res.Success || !reflect.DeepEqual(res.IndexedURLs, want) {
		t.Errorf("res = %+v, want urls %v", res, want)
	}
	got := index.received()
	if len(got) != 1 {
		t.Fatalf("payloads = %d, want 1", len(got))
	}
	p := got[0]
	if p.Host != site.host() || p.Key != testKey {
		t.Errorf("payload = %+v", p)
	}
	if p.KeyLocation != site.server.URL+"/"+testKey+".txt" {
		t.Errorf("KeyLocation = %q", p.KeyLocation)
	}
	if !reflect.DeepEqual(p.URLList, want) {
		t.Errorf("URLList = %v", p.URLList)
	}
}

func TestSubmitAcceptedCountsAsSuccess(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusAccepted)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))
	if _, err := s.Submit(context.Background(), site.target()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

func TestSubmitMissingCredential(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusOK)
	s := New(t.TempDir(), WithEndpoint(index.server.URL))

	_, err := s.Submit(context.Background(), site.target())
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 *Error, got %#v", err)
	}
	if len(index.received()) != 0 {
		t.Error("nothing should be submitted without a key")
	}
}

func TestSubmitMissingPublicDirDoesNotLeakPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "secret-location")
	s := New(dir)
	_, err := s.Submit(context.Background(), Target{Origin: "http://127.0.0.1:1", Host: "127.0.0.1:1"})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", e.Status)
	}
	if strings.Contains(e.Message, "secret-location") {
		t.Errorf("message leaks path: %q", e.Message)
	}
}

func TestSubmitSitemapFailure(t *testing.T) {
	site := newFakeSite(t)
	site.sitemapStatus = http.StatusInternalServerError
	s := New(publicDirWithKey(t))

	_, err := s.Submit(context.Background(), site.target())
	var e *Error
	if !errors.As(err, &e) || !errors.Is(err, ErrSitemapFetch) {
		t.Fatalf("expected ErrSitemapFetch, got %v", err)
	}
	if e.Status != http.StatusBadGateway || len(e.Attempted) != 0 {
		t.Errorf("e = %+v", e)
	}
}

func TestSubmitSitemapUnreachable(t *testing.T) {
	site := newFakeSite(t)
	target := site.target()
	site.server.Close()
	s := New(publicDirWithKey(t))

	_, err := s.Submit(context.Background(), target)
	var e *Error
	if !errors.As(err, &e) || e.Status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %v", err)
	}
}

func TestSubmitEmptySitemap(t *testing.T) {
	site := newFakeSite(t)
	site.sitemapBody = func(string) string { return "<urlset></urlset>" }
	s := New(publicDirWithKey(t))

	_, err := s.Submit(context.Background(), site.target())
	var e *Error
	if !errors.As(err, &e) || !errors.Is(err, ErrEmptySitemap) {
		t.Fatalf("expected ErrEmptySitemap, got %v", err)
	}
	if e.Status != http.StatusUnprocessableEntity {
		t.Errorf("Status = %d, want 422", e.Status)
	}
}

func TestSubmitNoMatchingHost(t *testing.T) {
	site := newFakeSite(t)
	site.sitemapBody = func(string) string {
		return "<urlset><url><loc>https://b.com/y</loc></url></urlset>"
	}
	index := newFakeIndex(t, http.StatusOK)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))

	_, err := s.Submit(context.Background(), site.target())
	var e *Error
	if !errors.As(err, &e) || !errors.Is(err, ErrNoMatchingHost) {
		t.Fatalf("expected ErrNoMatchingHost, got %v", err)
	}
	if e.Status != http.StatusUnprocessableEntity || len(e.Attempted) != 0 {
		t.Errorf("e = %+v", e)
	}
	if len(index.received()) != 0 {
		t.Error("nothing should be submitted")
	}
}

func TestSubmitIndexingFailureKeepsAttemptedURLs(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusForbidden)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))

	_, err := s.Submit(context.Background(), site.target())
	var e *Error
	if !errors.As(err, &e) || !errors.Is(err, ErrIndexingService) {
		t.Fatalf("expected ErrIndexingService, got %v", err)
	}
	if e.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want upstream 403", e.Status)
	}
	if len(e.Attempted) != 2 {
		t.Errorf("Attempted = %v, want the two filtered urls", e.Attempted)
	}
}

func TestHandlerBothVerbs(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusOK)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))

	e := echo.New()
	h := Handler(s)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/get_indexnow", nil)
		req.Host = site.host()
		req.Header.Set("X-Forwarded-Proto", "http")
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("%s: handler error: %v", method, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body %s", method, rec.Code, rec.Body.String())
		}
		var resp Response
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", method, err)
		}
		if !resp.Success || resp.Message != "Indexed successfully" || len(resp.IndexedURLs) != 2 {
			t.Errorf("%s: resp = %+v", method, resp)
		}
	}
	if got := index.received(); len(got) != 2 {
		t.Errorf("payloads = %d, want 2", len(got))
	}
}

func TestHandlerNoMatchingHostReturnsEmptyList(t *testing.T) {
	site := newFakeSite(t)
	s := New(publicDirWithKey(t))

	req := httptest.NewRequest(http.MethodPost, "/api/get_indexnow", nil)
	req.Host = "internal:3000"
	req.Header.Set("X-Forwarded-Proto", "http")
	req.Header.Set("X-Forwarded-Host", site.host())
	site.sitemapBody = func(string) string {
		return "<urlset><url><loc>https://b.com/y</loc></url></urlset>"
	}
	rec := httptest.NewRecorder()
	if err := Handler(s)(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"indexedUrls":[]`) || !strings.Contains(body, `"success":false`) {
		t.Errorf("body = %s", body)
	}
	if !strings.Contains(body, "No URLs match current host") {
		t.Errorf("body = %s", body)
	}
}

func TestHandlerUpstreamFailureReportsAttempted(t *testing.T) {
	site := newFakeSite(t)
	index := newFakeIndex(t, http.StatusTooManyRequests)
	s := New(publicDirWithKey(t), WithEndpoint(index.server.URL))

	req := httptest.NewRequest(http.MethodGet, "/api/get_indexnow", nil)
	req.Host = site.host()
	req.Header.Set("X-Forwarded-Proto", "http")
	rec := httptest.NewRecorder()
	if err := Handler(s)(echo.New().NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Message != "IndexNow request failed" || len(resp.IndexedURLs) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}
