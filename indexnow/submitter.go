// Package indexnow announces a site's sitemap URLs to the IndexNow API.
//
// Every submission is a complete, independent attempt: read the key file
// from the public directory, fetch the site's own sitemap.xml, keep the
// URLs on the requesting host and POST them to the indexing endpoint.
// Nothing is retried or remembered between calls.
package indexnow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// DefaultEndpoint is the shared IndexNow endpoint.
const DefaultEndpoint = "https://api.indexnow.org/indexnow"

const (
	sitemapAccept   = "application/xml, text/xml;q=0.9, */*;q=0.8"
	maxSitemapBytes = 50 << 20
)

// Payload is the JSON body sent to the indexing endpoint.
type Payload struct {
	Host        string   `json:"host"`
	Key         string   `json:"key"`
	KeyLocation string   `json:"keyLocation"`
	URLList     []string `json:"urlList"`
}

// Result is the outcome of a successful submission.
type Result struct {
	Success     bool
	Message     string
	IndexedURLs []string
}

// Submitter performs submissions for sites served from PublicDir.
type Submitter struct {
	publicDir string
	endpoint  string
	client    *http.Client
	logger    echo.Logger
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithEndpoint overrides the indexing endpoint (default DefaultEndpoint).
func WithEndpoint(endpoint string) Option {
	return func(s *Submitter) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for both outbound calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		s.client = c
	}
}

// WithLogger sets the logger. Echo's logger is the usual choice.
func WithLogger(l echo.Logger) Option {
	return func(s *Submitter) {
		s.logger = l
	}
}

// New creates a Submitter that looks for key files in publicDir.
func New(publicDir string, opts ...Option) *Submitter {
	s := &Submitter{
		publicDir: publicDir,
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New("indexnow")
	}
	return s
}

// Submit runs one submission for target. On failure the returned error is
// an *Error carrying the status to report and, when the indexing endpoint
// itself failed, the URLs that were attempted.
func (s *Submitter) Submit(ctx context.Context, target Target) (Result, error) {
	files, err := ReadKeyFiles(s.publicDir)
	if err != nil {
		return Result{}, classify(fmt.Errorf("read public dir: %w", err))
	}
	cred, err := FindCredential(files)
	if err != nil {
		return Result{}, classify(err)
	}

	xml, err := s.fetchSitemap(ctx, target.Origin+"/sitemap.xml")
	if err != nil {
		s.logger.Warnf("indexnow: sitemap fetch for %s: %v", target.Host, err)
		return Result{}, newError(ErrSitemapFetch, http.StatusBadGateway, "Failed to fetch sitemap.xml", err)
	}

	urls := ExtractLocs(xml)
	if len(urls) == 0 {
		return Result{}, newError(ErrEmptySitemap, http.StatusUnprocessableEntity, "No URLs found in sitemap.xml", nil)
	}
	filtered := FilterHost(urls, target.Host)
	if len(filtered) == 0 {
		return Result{}, newError(ErrNoMatchingHost, http.StatusUnprocessableEntity, "No URLs match current host", nil)
	}

	payload := Payload{
		Host:        target.Host,
		Key:         cred.Key,
		KeyLocation: target.Origin + "/" + cred.FileName,
		URLList:     filtered,
	}
	if err := s.post(ctx, payload); err != nil {
		s.logger.Warnf("indexnow: submit %d urls for %s: %v", len(filtered), target.Host, err)
		if ie, ok := err.(*Error); ok {
			ie.Attempted = filtered
			return Result{}, ie
		}
		e := classify(err)
		e.Attempted = filtered
		return Result{}, e
	}

	s.logger.Infof("indexnow: submitted %d urls for %s", len(filtered), target.Host)
	return Result{Success: true, Message: "Indexed successfully", IndexedURLs: filtered}, nil
}

func (s *Submitter) fetchSitemap(ctx context.Context, sitemapURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", sitemapAccept)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (s *Submitter) post(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return newError(ErrIndexingService, http.StatusBadGateway, "IndexNow request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(ErrIndexingService, resp.StatusCode, "IndexNow request failed", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}
