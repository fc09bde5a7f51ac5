package blogfront

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/blogfront/assets"
	"github.com/eringen/blogfront/indexnow"
)

// SiteConfig holds all configuration for a blogfront site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Fallback author name
	Language    string `yaml:"language"`    // RSS language (default "en-us")

	Addr         string        `yaml:"addr"`         // Listen address (default ":3000")
	DatabasePath string        `yaml:"databasePath"` // SQLite path (default "data/blog.db")
	PublicDir    string        `yaml:"publicDir"`    // Static files and key files (default "public")
	PostCacheTTL time.Duration `yaml:"postCacheTTL"` // Post cache TTL (default 5m)

	IndexNow IndexNowConfig `yaml:"indexNow"`
	Assets   assets.Catalog `yaml:"assets"`
}

// IndexNowConfig controls sitemap submission.
type IndexNowConfig struct {
	Endpoint     string        `yaml:"endpoint"`     // default indexnow.DefaultEndpoint
	Timeout      time.Duration `yaml:"timeout"`      // outbound HTTP timeout (default 30s)
	Every        time.Duration `yaml:"every"`        // periodic submission interval, 0 = off
	TriggerLimit int           `yaml:"triggerLimit"` // trigger calls per IP per minute, 0 = unlimited
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Language == "" {
		c.Language = "en-us"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.IndexNow.Endpoint == "" {
		c.IndexNow.Endpoint = indexnow.DefaultEndpoint
	}
	if c.IndexNow.Timeout == 0 {
		c.IndexNow.Timeout = 30 * time.Second
	}
	if len(c.Assets.Banners) == 0 {
		c.Assets.Banners = assets.DefaultBanners
	}
}

// DefaultConfig returns a SiteConfig with every default applied.
func DefaultConfig() SiteConfig {
	var cfg SiteConfig
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads a YAML site configuration and applies defaults.
func LoadConfig(path string) (SiteConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, err
	}
	var cfg SiteConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.Assets.Validate(); err != nil {
		return SiteConfig{}, fmt.Errorf("assets: %w", err)
	}
	if cfg.IndexNow.Every < 0 {
		return SiteConfig{}, fmt.Errorf("indexNow.every must not be negative")
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides SiteConfig.PublicDir.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.PublicDir = dir
	}
}

// WithSubmitter replaces the IndexNow submitter built from the config.
func WithSubmitter(s *indexnow.Submitter) Option {
	return func(a *App) {
		a.Submitter = s
	}
}

// WithStore uses an already opened Store instead of opening DatabasePath.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
