package blogfront

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and provides CRUD operations for blog posts.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets page renders read while an import writes; writers wait on
	// the busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// columns added after the first release; ALTERs that hit an existing
// column are ignored.
var postMigrations = []string{
	`ALTER TABLE posts ADD COLUMN author TEXT NOT NULL DEFAULT '';`,
	`ALTER TABLE posts ADD COLUMN banner TEXT NOT NULL DEFAULT '';`,
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    lastmod TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL,
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0
);
`)
	if err != nil {
		return err
	}
	for _, m := range postMigrations {
		if _, err := s.db.Exec(m); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				continue
			}
			return err
		}
	}
	return nil
}

const postColumns = `slug, title, date, lastmod, tags, summary, content, author, banner, draft`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (BlogPost, error) {
	var p BlogPost
	var tags string
	var draft int
	if err := r.Scan(&p.Slug, &p.Title, &p.Date, &p.LastMod, &tags, &p.Summary, &p.Content, &p.Author, &p.Banner, &draft); err != nil {
		return BlogPost{}, err
	}
	p.Tags = ParseTags(tags)
	p.Link = "/blog/" + p.Slug
	p.Draft = draft == 1
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]BlogPost, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPosts returns all published posts ordered by date descending.
// If tag is non-empty, results are filtered to posts containing that tag.
func (s *Store) ListPosts(tag string) ([]BlogPost, error) {
	if tag == "" {
		return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE draft = 0 ORDER BY date DESC, slug`)
	}
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE draft = 0 AND instr(tags, ',' || ? || ',') > 0 ORDER BY date DESC, slug`, normalizeTag(tag))
}

// ListAllPosts returns every post, drafts included, ordered by date descending.
func (s *Store) ListAllPosts() ([]BlogPost, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY date DESC, slug`)
}

// ListTags returns a sorted, deduplicated slice of all tags from published posts.
func (s *Store) ListTags() ([]string, error) {
	counts, err := s.TagCounts()
	if err != nil {
		return nil, err
	}
	tags := make([]string, len(counts))
	for i, tc := range counts {
		tags[i] = tc.Tag
	}
	return tags, nil
}

// TagCounts returns every tag of published posts with its post count,
// sorted by tag.
func (s *Store) TagCounts() ([]TagCount, error) {
	rows, err := s.db.Query(`SELECT tags FROM posts WHERE draft = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			counts[t]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		result = append(result, TagCount{Tag: t, Slug: TagSlug(t), Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Tag < result[j].Tag })
	return result, nil
}

// GetPost returns a single published post by slug.
func (s *Store) GetPost(slug string) (BlogPost, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND draft = 0`, slug))
}

// SavePost upserts a blog post. Tags are normalized to lowercase.
func (s *Store) SavePost(p BlogPost) error {
	normalized := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	tagString := "," + strings.Join(normalized, ",") + ","
	draft := 0
	if p.Draft {
		draft = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Date, p.LastMod, tagString, p.Summary, p.Content, p.Author, p.Banner, draft)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
