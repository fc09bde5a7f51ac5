package indexnow

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the JSON body returned by the trigger endpoint.
type Response struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message,omitempty"`
	IndexedURLs []string `json:"indexedUrls"`
}

// Handler returns the trigger endpoint. It takes no request body and
// behaves the same for every method it is mounted on.
func Handler(s *Submitter) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := s.Submit(c.Request().Context(), ResolveTarget(c.Request()))
		if err != nil {
			return WriteError(c, err)
		}
		return c.JSON(http.StatusOK, Response{
			Success:     true,
			Message:     res.Message,
			IndexedURLs: nonNil(res.IndexedURLs),
		})
	}
}

// WriteError renders err as a failed Response.
func WriteError(c echo.Context, err error) error {
	e := classify(err)
	if e.Status >= http.StatusInternalServerError && !errors.Is(err, ErrSitemapFetch) {
		c.Logger().Errorf("indexnow: %v", err)
	}
	return c.JSON(e.Status, Response{
		Success:     false,
		Message:     e.Message,
		IndexedURLs: nonNil(e.Attempted),
	})
}

func nonNil(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
