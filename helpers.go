package blogfront

import (
	"encoding/json"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// TagSlug is the path segment of a tag page: lower case with every run of
// white space replaced by a dash.
func TagSlug(tag string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(tag), "-")
}

// JoinURL joins a base URL with path segments. Unlike a plain path.Join the
// result never gains a trailing slash, and the bare base is returned for no
// segments.
func JoinURL(base string, pathSegments ...string) string {
	base = strings.TrimRight(base, "/")
	if len(pathSegments) == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}

// AbsURL resolves a site-relative path such as "/banners/a.webp" against
// base. Absolute URLs are returned unchanged.
func AbsURL(base, p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current BlogPost, posts []BlogPost) []BlogPost {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []BlogPost
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         JoinURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(page PostPage, cfg SiteConfig) string {
	post := page.Post
	postURL := JoinURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.Date,
		"dateModified":  post.Updated(),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"author": map[string]string{
			"@type": "Person",
			"name":  page.Author.DisplayName,
		},
	}
	if page.Banner != "" {
		data["image"] = AbsURL(cfg.URL, page.Banner)
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
