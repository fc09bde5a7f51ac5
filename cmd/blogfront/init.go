package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/eringen/blogfront/indexnow"
	"github.com/eringen/blogfront/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	SiteName string
	URL      string
	Date     string
}

func initAction(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("usage: blogfront init <dir>")
	}
	data := scaffoldData{
		SiteName: toTitle(filepath.Base(dir)),
		URL:      strings.TrimRight(c.String("url"), "/"),
		Date:     time.Now().Format("2006-01-02"),
	}
	return runInit(c, dir, data)
}

func runInit(c *cli.Context, dir string, data scaffoldData) error {
	if _, err := os.Stat(filepath.Join(dir, "blogfront.yaml")); err == nil {
		return fmt.Errorf("%s already contains blogfront.yaml", dir)
	}
	out := c.App.Writer

	fmt.Fprintf(out, "Creating new blogfront site: %s\n\n", dir)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	cred, err := indexnow.WriteKeyFile(filepath.Join(dir, "public"))
	if err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	fmt.Fprintf(out, "  created %s\n", filepath.Join(dir, "public", cred.FileName))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", dir)
	fmt.Fprintln(out, "  blogfront import posts")
	fmt.Fprintln(out, "  blogfront serve")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Put banner images under public/banners/ and check them with 'blogfront assets verify'.")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
