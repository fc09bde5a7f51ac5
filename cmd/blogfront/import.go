package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/eringen/blogfront"
)

func importAction(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("usage: blogfront import <dir>")
	}
	cfg, err := blogfront.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := blogfront.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	return importPosts(c, store, dir, c.Bool("prune"))
}

// readPosts parses every .md and .mdx file under dir.
func readPosts(dir string) ([]blogfront.BlogPost, error) {
	var posts []blogfront.BlogPost
	seen := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".mdx" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		post, err := parsePost(path, src)
		if err != nil {
			return err
		}
		if prev, ok := seen[post.Slug]; ok {
			return fmt.Errorf("%s: slug %q already used by %s", path, post.Slug, prev)
		}
		seen[post.Slug] = path
		posts = append(posts, post)
		return nil
	})
	return posts, err
}

func importPosts(c *cli.Context, store *blogfront.Store, dir string, prune bool) error {
	posts, err := readPosts(dir)
	if err != nil {
		return err
	}
	out := c.App.Writer

	keep := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if err := store.SavePost(p); err != nil {
			return fmt.Errorf("save %s: %w", p.Slug, err)
		}
		keep[p.Slug] = struct{}{}
		state := ""
		if p.Draft {
			state = " (draft)"
		}
		fmt.Fprintf(out, "  imported %s%s\n", p.Slug, state)
	}

	removed := 0
	if prune {
		existing, err := store.ListAllPosts()
		if err != nil {
			return err
		}
		for _, p := range existing {
			if _, ok := keep[p.Slug]; ok {
				continue
			}
			if err := store.DeletePost(p.Slug); err != nil {
				return fmt.Errorf("delete %s: %w", p.Slug, err)
			}
			fmt.Fprintf(out, "  removed %s\n", p.Slug)
			removed++
		}
	}

	fmt.Fprintf(out, "\nImported %d posts, removed %d.\n", len(posts), removed)
	return nil
}
