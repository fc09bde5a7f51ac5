package blogfront

import "github.com/eringen/blogfront/assets"

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost struct {
	Title   string
	Date    string // YYYY-MM-DD
	LastMod string // YYYY-MM-DD, empty when never updated
	Tags    []string
	Summary string
	Link    string
	Slug    string
	Content string
	Author  string // author name from front matter, may be empty
	Banner  string // explicit banner path, overrides the title-hashed one
	Draft   bool
}

// Updated returns LastMod, or Date when the post was never updated.
func (p BlogPost) Updated() string {
	if p.LastMod != "" {
		return p.LastMod
	}
	return p.Date
}

// PostPage is everything the post template needs.
type PostPage struct {
	Post    BlogPost
	Banner  string
	Author  assets.Profile
	Related []BlogPost
	Meta    PageMeta
}

// TagCount is a tag with the number of published posts carrying it.
type TagCount struct {
	Tag   string
	Slug  string
	Count int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image, absolute
}
