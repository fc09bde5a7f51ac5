package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/blogfront"
)

// frontMatter is the YAML header of a Markdown post.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Date    string   `yaml:"date"`
	LastMod string   `yaml:"lastmod"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Draft   bool     `yaml:"draft"`
	Authors []string `yaml:"authors"`
	Images  []string `yaml:"images"`
}

var frontMatterDelim = []byte("---")

// splitFrontMatter separates the YAML header from the body. A document
// without a leading "---" line has no header.
func splitFrontMatter(src []byte) (header, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(src, append(frontMatterDelim, '\n')) {
		return nil, src, nil
	}
	rest := src[len(frontMatterDelim)+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		if bytes.HasPrefix(rest, frontMatterDelim) {
			return nil, bytes.TrimPrefix(rest[len(frontMatterDelim):], []byte("\n")), nil
		}
		return nil, nil, fmt.Errorf("front matter is not closed")
	}
	header = rest[:end+1]
	body = rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return header, body, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
}

// normalizeDate reduces a front matter date to YYYY-MM-DD.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// parsePost turns one Markdown file into a BlogPost. The slug comes from
// the front matter or, failing that, the file name.
func parsePost(name string, src []byte) (blogfront.BlogPost, error) {
	header, body, err := splitFrontMatter(src)
	if err != nil {
		return blogfront.BlogPost{}, fmt.Errorf("%s: %w", name, err)
	}
	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return blogfront.BlogPost{}, fmt.Errorf("%s: front matter: %w", name, err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return blogfront.BlogPost{}, fmt.Errorf("%s: missing title", name)
	}
	date, err := normalizeDate(fm.Date)
	if err != nil {
		return blogfront.BlogPost{}, fmt.Errorf("%s: date: %w", name, err)
	}
	if date == "" {
		return blogfront.BlogPost{}, fmt.Errorf("%s: missing date", name)
	}
	lastMod, err := normalizeDate(fm.LastMod)
	if err != nil {
		return blogfront.BlogPost{}, fmt.Errorf("%s: lastmod: %w", name, err)
	}

	slug := blogfront.Slugify(fm.Slug)
	if slug == "" {
		slug = blogfront.Slugify(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	}
	if slug == "" {
		return blogfront.BlogPost{}, fmt.Errorf("%s: cannot derive a slug", name)
	}

	post := blogfront.BlogPost{
		Title:   strings.TrimSpace(fm.Title),
		Slug:    slug,
		Date:    date,
		LastMod: lastMod,
		Tags:    blogfront.FilterEmpty(fm.Tags),
		Summary: strings.TrimSpace(fm.Summary),
		Content: strings.TrimSpace(string(body)),
		Draft:   fm.Draft,
	}
	if authors := blogfront.FilterEmpty(fm.Authors); len(authors) > 0 {
		post.Author = authors[0]
	}
	if images := blogfront.FilterEmpty(fm.Images); len(images) > 0 {
		post.Banner = images[0]
	}
	return post, nil
}
