package blogfront

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
}

func (a *App) buildFeed(posts []BlogPost) rssXML {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	lastBuild := ""
	for _, p := range posts {
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
			if lastBuild == "" {
				lastBuild = pubDate
			}
		}
		postURL := JoinURL(base, "blog", p.Slug)
		author := p.Author
		if author == "" {
			author = a.Config.Author
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Summary,
			PubDate:     pubDate,
			GUID:        postURL,
			Author:      a.Config.Assets.Profile(p.Title, author).DisplayName,
			Categories:  p.Tags,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         a.Config.Name,
			Link:          JoinURL(base),
			Description:   a.Config.Description,
			Language:      a.Config.Language,
			LastBuildDate: lastBuild,
			Items:         items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildFeed(posts))
}
