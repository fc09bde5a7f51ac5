package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// version is set at build time via ldflags.
var version = "dev"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "site configuration file",
	Value:   "blogfront.yaml",
	EnvVars: []string{"BLOGFRONT_CONFIG"},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "blogfront",
		Usage:   "a blog front-end with deterministic banners and IndexNow submission",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the web server",
				Flags:  []cli.Flag{configFlag},
				Action: serveAction,
			},
			{
				Name:      "init",
				Usage:     "create a new site directory with a config and an IndexNow key file",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "public site URL", Value: "http://localhost:3000"},
				},
				Action: initAction,
			},
			{
				Name:      "import",
				Usage:     "load Markdown posts with YAML front matter into the store",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					configFlag,
					&cli.BoolFlag{Name: "prune", Usage: "delete stored posts that have no file"},
				},
				Action: importAction,
			},
			{
				Name:      "banner",
				Usage:     "print the banner assigned to a title",
				ArgsUsage: "<title>",
				Flags:     []cli.Flag{configFlag},
				Action:    bannerAction,
			},
			{
				Name:      "author",
				Usage:     "print the author profile assigned to a title",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "name", Usage: "author name from the post"},
				},
				Action: authorAction,
			},
			{
				Name:  "submit",
				Usage: "submit the sitemap of a site to IndexNow once",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "origin", Usage: "site origin, e.g. https://example.com", Required: true},
					&cli.StringFlag{Name: "public", Usage: "directory holding the key file", Value: "public"},
					&cli.StringFlag{Name: "endpoint", Usage: "IndexNow endpoint"},
					&cli.DurationFlag{Name: "timeout", Usage: "HTTP timeout", Value: defaultSubmitTimeout},
				},
				Action: submitAction,
			},
			{
				Name:  "assets",
				Usage: "inspect the banner and author images",
				Subcommands: []*cli.Command{
					{
						Name:   "verify",
						Usage:  "decode every configured image under the public directory",
						Flags:  []cli.Flag{configFlag},
						Action: verifyAction,
					},
				},
			},
			{
				Name:  "version",
				Usage: "print the blogfront version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "blogfront %s\n", version)
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
