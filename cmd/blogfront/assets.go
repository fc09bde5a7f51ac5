package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/eringen/blogfront"
	"github.com/eringen/blogfront/assets"
)

// siteConfig loads the config named by --config. A missing default config
// file yields the built-in defaults so the lookup commands work anywhere.
func siteConfig(c *cli.Context) (blogfront.SiteConfig, error) {
	cfg, err := blogfront.LoadConfig(c.String("config"))
	if errors.Is(err, fs.ErrNotExist) && !c.IsSet("config") {
		return blogfront.DefaultConfig(), nil
	}
	if err != nil {
		return blogfront.SiteConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func titleArg(c *cli.Context) (string, error) {
	title := strings.Join(c.Args().Slice(), " ")
	if title == "" {
		return "", fmt.Errorf("usage: blogfront %s <title>", c.Command.Name)
	}
	return title, nil
}

func bannerAction(c *cli.Context) error {
	title, err := titleArg(c)
	if err != nil {
		return err
	}
	cfg, err := siteConfig(c)
	if err != nil {
		return err
	}
	banner, err := cfg.Assets.Banner(title, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, banner)
	return nil
}

func authorAction(c *cli.Context) error {
	title, err := titleArg(c)
	if err != nil {
		return err
	}
	cfg, err := siteConfig(c)
	if err != nil {
		return err
	}
	name := c.String("name")
	if name == "" {
		name = cfg.Author
	}
	p := cfg.Assets.Profile(title, name)
	out := c.App.Writer
	fmt.Fprintf(out, "name:        %s\n", p.DisplayName)
	if p.HasImage() {
		fmt.Fprintf(out, "image:       %s\n", p.ImagePath)
	} else {
		fmt.Fprintln(out, "image:       (none)")
	}
	if p.Designation != "" {
		fmt.Fprintf(out, "designation: %s\n", p.Designation)
	}
	return nil
}

func verifyAction(c *cli.Context) error {
	cfg, err := siteConfig(c)
	if err != nil {
		return err
	}
	out := c.App.Writer

	var errs []error
	for _, group := range []struct {
		name    string
		entries []assets.Entry
	}{
		{"banners", cfg.Assets.Banners},
		{"authors", cfg.Assets.Authors},
	} {
		infos, err := assets.Verify(cfg.PublicDir, group.entries)
		fmt.Fprintf(out, "%s: %d ok, %d configured\n", group.name, len(infos), len(group.entries))
		for _, info := range infos {
			fmt.Fprintf(out, "  %-40s %-5s %5dx%-5d %8d bytes\n", info.Path, info.Format, info.Width, info.Height, info.Size)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
