package assets

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBanners is the stock banner set shipped under public/banners.
var DefaultBanners = Paths(
	"/banners/banner1.webp",
	"/banners/banner2.webp",
	"/banners/banner3.webp",
	"/banners/banner4.webp",
	"/banners/banner5.webp",
	"/banners/banner6.webp",
	"/banners/banner7.webp",
	"/banners/banner8.webp",
)

// Catalog holds the ordered banner and author lists. It is built once at
// startup and must not be modified afterwards; list order defines the
// index space of the hash.
type Catalog struct {
	Banners []Entry `yaml:"banners"`
	Authors []Entry `yaml:"authors"`
}

// Validate checks the configuration invariants of the catalog.
func (c Catalog) Validate() error {
	if len(c.Banners) == 0 {
		return fmt.Errorf("banners: %w", ErrNoCandidates)
	}
	for i, e := range c.Banners {
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("banners[%d]: empty path", i)
		}
	}
	for i, e := range c.Authors {
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("authors[%d]: empty path", i)
		}
	}
	return nil
}

// Banner returns override if set, otherwise the banner assigned to title.
func (c Catalog) Banner(title, override string) (string, error) {
	return SelectOrDefault(title, c.Banners, override)
}

// Profile returns the author profile assigned to title. The display name
// falls back to authorName and then to DefaultAuthorName.
func (c Catalog) Profile(title, authorName string) Profile {
	e, err := Select(title, c.Authors)
	if errors.Is(err, ErrNoCandidates) {
		return Profile{DisplayName: firstNonEmpty(authorName, DefaultAuthorName)}
	}
	return Profile{
		ImagePath:   e.Path,
		DisplayName: firstNonEmpty(e.Name, authorName, DefaultAuthorName),
		Designation: e.Designation,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// UnmarshalYAML accepts either a bare path or a {path, name, designation}
// mapping.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var p string
		if err := value.Decode(&p); err != nil {
			return err
		}
		*e = Entry{Path: p}
		return nil
	}
	type plain Entry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}
