package blogfront

import (
	"encoding/xml"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// sitemapTimeLayout is ISO 8601 without fractional seconds, in UTC.
const sitemapTimeLayout = "2006-01-02T15:04:05+00:00"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`

	modified time.Time
}

// buildSitemap lists the static pages, every tag page and every published
// post, newest lastmod first. Static and tag pages are stamped with now.
func buildSitemap(base string, posts []BlogPost, tags []TagCount, now time.Time) []sitemapURL {
	now = now.UTC().Truncate(time.Second)
	entry := func(loc string, mod time.Time, freq string, prio float64) sitemapURL {
		return sitemapURL{
			Loc:        loc,
			LastMod:    mod.Format(sitemapTimeLayout),
			ChangeFreq: freq,
			Priority:   prio,
			modified:   mod,
		}
	}

	urls := []sitemapURL{
		entry(JoinURL(base), now, "daily", 1.0),
		entry(JoinURL(base, "blog"), now, "daily", 0.8),
		entry(JoinURL(base, "tags"), now, "weekly", 0.5),
		entry(JoinURL(base, "about"), now, "monthly", 0.3),
	}
	for _, t := range tags {
		urls = append(urls, entry(JoinURL(base, "tags", t.Slug), now, "weekly", 0.8))
	}
	for _, p := range posts {
		if p.Draft {
			continue
		}
		mod, err := time.Parse("2006-01-02", p.Updated())
		if err != nil {
			mod = now
		}
		urls = append(urls, entry(JoinURL(base, "blog", p.Slug), mod, "weekly", 0.8))
	}
	sort.SliceStable(urls, func(i, j int) bool {
		return urls[i].modified.After(urls[j].modified)
	})
	return urls
}

func (a *App) renderSitemap(c echo.Context, posts []BlogPost, tags []TagCount) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  buildSitemap(a.Config.URL, posts, tags, a.now()),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
