// Package views provides the default blogfront pages. Sites that want their
// own markup pass their own blogfront.ViewFuncs instead.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/eringen/blogfront"
	"github.com/eringen/blogfront/assets"
	"github.com/eringen/blogfront/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
	"tagSlug":    blogfront.TagSlug,
	"tagClass":   TagClass,
	"joinTags":   JoinTags,
}

var pages = parsePages("home", "blog", "post", "tags", "tag", "about", "notfound", "error")

func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return out
}

// Card is a post summary with its resolved banner and author.
type Card struct {
	Post   blogfront.BlogPost
	Banner string
	Author assets.Profile
}

type pageData struct {
	Site   blogfront.SiteConfig
	Meta   blogfront.PageMeta
	Title  string
	JSONLD template.JS

	Cards []Card
	Tags  []blogfront.TagCount
	Tag   blogfront.TagCount
	Page  blogfront.PostPage
	Body  template.HTML
}

func render(name string, data pageData) templ.Component {
	if data.Title == "" {
		data.Title = data.Site.Name
	} else {
		data.Title += " | " + data.Site.Name
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", data)
	})
}

// Cards resolves banners and author profiles for a list of posts. A post
// whose banner cannot be resolved is shown without one.
func Cards(cfg blogfront.SiteConfig, posts []blogfront.BlogPost) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		banner, err := cfg.Assets.Banner(p.Title, p.Banner)
		if err != nil {
			banner = ""
		}
		author := p.Author
		if author == "" {
			author = cfg.Author
		}
		cards = append(cards, Card{
			Post:   p,
			Banner: banner,
			Author: cfg.Assets.Profile(p.Title, author),
		})
	}
	return cards
}

func siteMeta(cfg blogfront.SiteConfig, title string, segments ...string) blogfront.PageMeta {
	return blogfront.PageMeta{
		Title:       title,
		Description: cfg.Description,
		URL:         blogfront.JoinURL(cfg.URL, segments...),
		OGType:      "website",
	}
}

// Default returns the default page set.
func Default() blogfront.ViewFuncs {
	return blogfront.ViewFuncs{
		Home:        Home,
		Blog:        Blog,
		Post:        Post,
		Tags:        Tags,
		TagPosts:    TagPosts,
		About:       About,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

func Home(cfg blogfront.SiteConfig, posts []blogfront.BlogPost) templ.Component {
	return render("home", pageData{
		Site:   cfg,
		Meta:   siteMeta(cfg, cfg.Name),
		JSONLD: template.JS(blogfront.WebsiteJsonLD(cfg)),
		Cards:  Cards(cfg, posts),
	})
}

func Blog(cfg blogfront.SiteConfig, posts []blogfront.BlogPost, tags []blogfront.TagCount) templ.Component {
	return render("blog", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "Blog", "blog"),
		Title: "Blog",
		Cards: Cards(cfg, posts),
		Tags:  tags,
	})
}

// Post renders a single post. The body is Markdown.
func Post(cfg blogfront.SiteConfig, page blogfront.PostPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := templ.ToGoHTML(ctx, markdown.Markdown(page.Post.Content))
		if err != nil {
			return err
		}
		return render("post", pageData{
			Site:   cfg,
			Meta:   page.Meta,
			Title:  page.Post.Title,
			JSONLD: template.JS(blogfront.BlogPostingJsonLD(page, cfg)),
			Page:   page,
			Cards:  Cards(cfg, page.Related),
			Body:   body,
		}).Render(ctx, w)
	})
}

func Tags(cfg blogfront.SiteConfig, tags []blogfront.TagCount) templ.Component {
	return render("tags", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "Tags", "tags"),
		Title: "Tags",
		Tags:  tags,
	})
}

func TagPosts(cfg blogfront.SiteConfig, tag blogfront.TagCount, posts []blogfront.BlogPost) templ.Component {
	return render("tag", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "#"+tag.Tag, "tags", tag.Slug),
		Title: "#" + tag.Tag,
		Tag:   tag,
		Cards: Cards(cfg, posts),
	})
}

func About(cfg blogfront.SiteConfig) templ.Component {
	return render("about", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "About", "about"),
		Title: "About",
	})
}

func NotFound(cfg blogfront.SiteConfig) templ.Component {
	return render("notfound", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "Not found"),
		Title: "Not found",
	})
}

func ServerError(cfg blogfront.SiteConfig) templ.Component {
	return render("error", pageData{
		Site:  cfg,
		Meta:  siteMeta(cfg, "Error"),
		Title: "Something went wrong",
	})
}
