package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/urfave/cli/v2"

	"github.com/eringen/blogfront/indexnow"
)

const defaultSubmitTimeout = 30 * time.Second

func submitAction(c *cli.Context) error {
	target, err := indexnow.TargetFromURL(c.String("origin"))
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}

	logger := log.New("submit")
	logger.SetOutput(c.App.ErrWriter)
	opts := []indexnow.Option{
		indexnow.WithHTTPClient(&http.Client{Timeout: c.Duration("timeout")}),
		indexnow.WithLogger(logger),
	}
	if ep := c.String("endpoint"); ep != "" {
		opts = append(opts, indexnow.WithEndpoint(ep))
	}
	s := indexnow.New(c.String("public"), opts...)

	out := c.App.Writer
	res, err := s.Submit(c.Context, target)
	if err != nil {
		var ie *indexnow.Error
		if errors.As(err, &ie) {
			for _, u := range ie.Attempted {
				fmt.Fprintf(out, "  attempted %s\n", u)
			}
			return fmt.Errorf("%s (status %d)", ie.Message, ie.Status)
		}
		return err
	}
	for _, u := range res.IndexedURLs {
		fmt.Fprintf(out, "  %s\n", u)
	}
	fmt.Fprintf(out, "%s: %d urls\n", res.Message, len(res.IndexedURLs))
	return nil
}
