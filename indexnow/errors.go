package indexnow

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
)

// Submission failures, matched with errors.Is.
var (
	ErrCredentialNotFound = errors.New("indexnow: key file not found")
	ErrSitemapFetch       = errors.New("indexnow: sitemap fetch failed")
	ErrEmptySitemap       = errors.New("indexnow: sitemap has no urls")
	ErrNoMatchingHost     = errors.New("indexnow: no sitemap urls match host")
	ErrIndexingService    = errors.New("indexnow: indexing service rejected submission")

	errNotAbsolute = errors.New("not an absolute url")
)

// Error is a failed submission as reported to the caller. Message is safe
// to expose; Attempted lists the URLs sent before the failure, if any.
type Error struct {
	Status    int
	Message   string
	Attempted []string
	kind      error
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.kind.Error() + ": " + e.cause.Error()
	}
	return e.kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func newError(kind error, status int, msg string, cause error) *Error {
	return &Error{Status: status, Message: msg, kind: kind, cause: cause}
}

// classify converts err into an *Error. Unknown errors become a 500 whose
// message has file paths and URLs stripped.
func classify(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, ErrCredentialNotFound) {
		return newError(ErrCredentialNotFound, http.StatusInternalServerError, "IndexNow key file not found in public directory", nil)
	}
	return &Error{Status: http.StatusInternalServerError, Message: safeMessage(err), kind: err}
}

func safeMessage(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Op + ": " + pe.Err.Error()
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Op + ": " + ue.Err.Error()
	}
	if err == nil {
		return "Unknown error"
	}
	return err.Error()
}
