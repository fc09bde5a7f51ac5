// Package markdown renders post bodies to HTML.
//
// Raw HTML in the source is dropped, link and image targets are limited to
// site paths, fragments and the http, https, mailto and tel schemes.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write(Render(content))
		return err
	})
}

// Render returns the HTML representation of md.
func Render(md string) []byte {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	r := &renderer{HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML,
	})}
	return blackfriday.Run([]byte(md), blackfriday.WithExtensions(extensions), blackfriday.WithRenderer(r))
}

// renderer overrides links, images and code blocks; everything else is the
// stock HTML renderer.
type renderer struct {
	*blackfriday.HTMLRenderer
	images int
}

func (r *renderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	switch node.Type {
	case blackfriday.Image:
		r.image(w, node)
		return blackfriday.SkipChildren
	case blackfriday.Link:
		href := SafeURL(string(node.LinkData.Destination))
		if href == "" {
			// Children still render as plain text.
			return blackfriday.GoToNext
		}
		if !entering {
			io.WriteString(w, "</a>")
			return blackfriday.GoToNext
		}
		io.WriteString(w, `<a href="`+href+`" class="underline decoration-2 underline-offset-4"`)
		if external(href) {
			io.WriteString(w, ` target="_blank" rel="noopener noreferrer"`)
		}
		io.WriteString(w, ">")
		return blackfriday.GoToNext
	case blackfriday.CodeBlock:
		codeBlock(w, node)
		return blackfriday.GoToNext
	}
	return r.HTMLRenderer.RenderNode(w, node, entering)
}

// image writes an <img>. The first image on the page is fetched eagerly at
// high priority, later ones lazily. An unsafe source leaves only the alt text.
func (r *renderer) image(w io.Writer, node *blackfriday.Node) {
	alt := html.EscapeString(plainText(node))
	src := SafeURL(string(node.LinkData.Destination))
	if src == "" {
		io.WriteString(w, alt)
		return
	}
	r.images++
	load := `loading="lazy"`
	if r.images == 1 {
		load = `fetchpriority="high"`
	}
	io.WriteString(w, `<img `+load+` src="`+src+`" alt="`+alt+`"`)
	if title := node.LinkData.Title; len(title) > 0 {
		io.WriteString(w, ` title="`+html.EscapeString(string(title))+`"`)
	}
	io.WriteString(w, ` decoding="async"/>`)
}

func codeBlock(w io.Writer, node *blackfriday.Node) {
	lang := ""
	if f := strings.Fields(string(node.CodeBlockData.Info)); len(f) > 0 {
		lang = html.EscapeString(f[0])
	}
	code := html.EscapeString(string(node.Literal))
	if lang == "" {
		io.WriteString(w, `<pre class="code-block"><code>`+code+"</code></pre>\n")
		return
	}
	io.WriteString(w, `<div class="code-block-wrapper"><span class="code-lang code-lang-`+lang+`">`+lang+`</span>`)
	io.WriteString(w, `<pre class="code-block"><code class="language-`+lang+`">`+code+"</code></pre></div>\n")
}

// plainText concatenates the text under node, dropping any markup.
func plainText(node *blackfriday.Node) string {
	var b bytes.Buffer
	node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (n.Type == blackfriday.Text || n.Type == blackfriday.Code) {
			b.Write(n.Literal)
		}
		return blackfriday.GoToNext
	})
	return b.String()
}

func external(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// SafeURL validates and escapes a URL for use in an HTML attribute. It
// returns "" for anything that is not a site path, a fragment or an allowed
// scheme.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "//") {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
