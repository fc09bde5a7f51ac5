package blogfront

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// renderPage writes cmp as an HTML response. Nothing is written when cmp
// fails to render.
func renderPage(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return c.HTMLBlob(code, buf.Bytes())
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	if len(posts) > HomePostCount {
		posts = posts[:HomePostCount]
	}
	return renderPage(c, http.StatusOK, a.Views.Home(a.Config, posts))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, a.Views.Blog(a.Config, posts, tags))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return renderPage(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	page, err := a.postPage(post, posts)
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, a.Views.Post(a.Config, page))
}

// postPage resolves the banner and author profile for post. Both come from
// the title hash unless the post names its own banner.
func (a *App) postPage(post BlogPost, posts []BlogPost) (PostPage, error) {
	banner, err := a.Config.Assets.Banner(post.Title, post.Banner)
	if err != nil {
		return PostPage{}, fmt.Errorf("blogfront: banner for %q: %w", post.Slug, err)
	}
	authorName := post.Author
	if authorName == "" {
		authorName = a.Config.Author
	}
	return PostPage{
		Post:    post,
		Banner:  banner,
		Author:  a.Config.Assets.Profile(post.Title, authorName),
		Related: FilterRelatedPosts(post, posts),
		Meta: PageMeta{
			Title:       post.Title,
			Description: post.Summary,
			URL:         JoinURL(a.Config.URL, "blog", post.Slug),
			OGType:      "article",
			Image:       AbsURL(a.Config.URL, banner),
		},
	}, nil
}

func (a *App) handleTags(c echo.Context) error {
	tags, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	return renderPage(c, http.StatusOK, a.Views.Tags(a.Config, tags))
}

func (a *App) handleTag(c echo.Context) error {
	slug := c.Param("tag")
	tags, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	for _, t := range tags {
		if t.Slug != slug {
			continue
		}
		posts, err := a.Cache.ListPosts(slug)
		if err != nil {
			return err
		}
		return renderPage(c, http.StatusOK, a.Views.TagPosts(a.Config, t, posts))
	}
	return renderPage(c, http.StatusNotFound, a.Views.NotFound(a.Config))
}

func (a *App) handleAbout(c echo.Context) error {
	return renderPage(c, http.StatusOK, a.Views.About(a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	tags, err := a.Cache.TagCounts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, tags)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = renderPage(c, http.StatusNotFound, a.Views.NotFound(a.Config))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		if err := renderPage(c, code, a.Views.ServerError(a.Config)); err != nil {
			c.Logger().Errorf("error page: %v", err)
			_ = c.String(code, http.StatusText(code))
		}
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
