package blogfront

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func savePosts(t *testing.T, s *Store, posts ...BlogPost) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s) failed: %v", p.Slug, err)
		}
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{
		Slug:    "test-post",
		Title:   "Test Post",
		Date:    "2024-01-15",
		LastMod: "2024-02-01",
		Tags:    []string{"go", "testing"},
		Summary: "A test post summary",
		Content: "Test content.",
		Author:  "Jane Doe",
		Banner:  "/banners/custom.webp",
	}
	savePosts(t, s, post)

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Date != post.Date || got.LastMod != post.LastMod {
		t.Errorf("Date/LastMod = %q/%q", got.Date, got.LastMod)
	}
	if got.Summary != post.Summary || got.Content != post.Content {
		t.Errorf("Summary/Content = %q/%q", got.Summary, got.Content)
	}
	if got.Author != "Jane Doe" {
		t.Errorf("Author = %q", got.Author)
	}
	if got.Banner != "/banners/custom.webp" {
		t.Errorf("Banner = %q", got.Banner)
	}
	if got.Link != "/blog/test-post" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/test-post")
	}
	if got.Draft {
		t.Error("Draft should be false")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
	if got.Updated() != "2024-02-01" {
		t.Errorf("Updated() = %q", got.Updated())
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)

	post := BlogPost{Slug: "update-test", Title: "Original Title", Date: "2024-01-01", Tags: []string{"original"}}
	savePosts(t, s, post)

	post.Title = "Updated Title"
	post.Tags = []string{"updated", "modified"}
	savePosts(t, s, post)

	got, err := s.GetPost("update-test")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags count = %d, want 2", len(got.Tags))
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetPost("nonexistent"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetPostDraftHidden(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s, BlogPost{Slug: "draft-post", Title: "Draft", Date: "2024-01-01", Draft: true})

	if _, err := s.GetPost("draft-post"); err != sql.ErrNoRows {
		t.Errorf("GetPost should return ErrNoRows for drafts, got %v", err)
	}
	all, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(all) != 1 || !all[0].Draft {
		t.Errorf("ListAllPosts = %+v, want the draft", all)
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}},
		BlogPost{Slug: "post-2", Title: "Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}},
		BlogPost{Slug: "post-3", Title: "Post 3", Date: "2024-01-03", Tags: []string{"rust"}},
		BlogPost{Slug: "post-4", Title: "Post 4", Date: "2024-01-04", Tags: []string{"go"}, Draft: true},
	)

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3 (excluding drafts)", len(got))
	}
	if got[0].Slug != "post-3" {
		t.Errorf("First post should be post-3 (latest), got %s", got[0].Slug)
	}
}

func TestListPostsByTag(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "go-post-1", Title: "Go Post 1", Date: "2024-01-01", Tags: []string{"Go", "tutorial"}},
		BlogPost{Slug: "go-post-2", Title: "Go Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}},
		BlogPost{Slug: "rust-post", Title: "Rust Post", Date: "2024-01-03", Tags: []string{"rust"}},
	)

	tests := []struct {
		tag  string
		want int
	}{
		{"go", 2},
		{"GO", 2},
		{"rust", 1},
		{"nonexistent", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) count = %d, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestTagCounts(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "p1", Title: "P1", Date: "2024-01-01", Tags: []string{"Go", "Web Dev"}},
		BlogPost{Slug: "p2", Title: "P2", Date: "2024-01-02", Tags: []string{"go", "api"}},
		BlogPost{Slug: "p3", Title: "P3", Date: "2024-01-03", Tags: []string{"rust"}, Draft: true},
	)

	got, err := s.TagCounts()
	if err != nil {
		t.Fatalf("TagCounts failed: %v", err)
	}
	want := []TagCount{
		{Tag: "api", Slug: "api", Count: 1},
		{Tag: "go", Slug: "go", Count: 2},
		{Tag: "web dev", Slug: "web-dev", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("TagCounts = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TagCounts[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 3 || tags[0] != "api" || tags[2] != "web dev" {
		t.Errorf("ListTags = %v", tags)
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s, BlogPost{Slug: "to-delete", Title: "To Delete", Date: "2024-01-01"})

	if _, err := s.GetPost("to-delete"); err != nil {
		t.Fatalf("Post should exist before delete: %v", err)
	}
	if err := s.DeletePost("to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost("to-delete"); err != sql.ErrNoRows {
		t.Errorf("Post should not exist after delete, got err: %v", err)
	}
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestNewStoreReopensExistingSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	savePosts(t, s, BlogPost{Slug: "kept", Title: "Kept", Date: "2024-01-01", Author: "A"})
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	got, err := s.GetPost("kept")
	if err != nil {
		t.Fatalf("GetPost after reopen failed: %v", err)
	}
	if got.Author != "A" {
		t.Errorf("Author = %q", got.Author)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{",go,web,", 2},
		{",,", 0},
		{"", 0},
		{"single", 1},
	}
	for _, tt := range tests {
		if got := ParseTags(tt.in); len(got) != tt.want {
			t.Errorf("ParseTags(%q) = %v, want %d tags", tt.in, got, tt.want)
		}
	}
}

func TestPostCache(t *testing.T) {
	s := setupTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2024-01-01", Tags: []string{"Web Dev"}},
		BlogPost{Slug: "b", Title: "B", Date: "2024-01-02", Tags: []string{"go"}},
	)
	c := NewPostCache(s, time.Hour)

	posts, err := c.ListPosts("web-dev")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "a" {
		t.Errorf("ListPosts(web-dev) = %+v", posts)
	}

	savePosts(t, s, BlogPost{Slug: "c", Title: "C", Date: "2024-01-03"})
	if _, err := c.GetPost("c"); err != ErrNotFound {
		t.Errorf("expected cached miss before invalidate, got %v", err)
	}
	c.Invalidate()
	if _, err := c.GetPost("c"); err != nil {
		t.Errorf("GetPost after invalidate: %v", err)
	}
}
