package portfolio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *BlogStore {
	t.Helper()

	s, err := NewBlogStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func samplePost(slug string) BlogPost {
	return BlogPost{
		Slug:        slug,
		Title:       "Test Post",
		Content:     "<p>Test content.</p>",
		Description: "A test post",
		Date:        "2024-01-15",
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	created, err := s.CreatePost(samplePost("test-post"))
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if created.CreatedAt == "" || created.UpdatedAt == "" {
		t.Fatal("CreatePost should assign timestamps")
	}
	if _, err := time.Parse(time.RFC3339, created.CreatedAt); err != nil {
		t.Errorf("CreatedAt %q is not RFC3339: %v", created.CreatedAt, err)
	}

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Slug != "test-post" {
		t.Errorf("Slug = %q, want %q", got.Slug, "test-post")
	}
	if got.Title != "Test Post" {
		t.Errorf("Title = %q, want %q", got.Title, "Test Post")
	}
	if got.Content != "<p>Test content.</p>" {
		t.Errorf("Content = %q, want %q", got.Content, "<p>Test content.</p>")
	}
	if got.Date != "2024-01-15" {
		t.Errorf("Date = %q, want %q", got.Date, "2024-01-15")
	}
	if got.CreatedAt != created.CreatedAt {
		t.Errorf("CreatedAt = %q, want %q", got.CreatedAt, created.CreatedAt)
	}
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(samplePost("dup")); err != nil {
		t.Fatalf("first CreatePost failed: %v", err)
	}

	second := samplePost("dup")
	second.Title = "Overwriting Title"
	if _, err := s.CreatePost(second); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	// The original document must be untouched.
	got, err := s.GetPost("dup")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Test Post" {
		t.Errorf("Title after failed create = %q, want %q", got.Title, "Test Post")
	}
}

func TestCreatePostInvalidSlug(t *testing.T) {
	for _, slug := range []string{"", "Bad Slug", "UPPER", "dots.not.ok", "../escape", "trailing-", "-leading", "double--hyphen"} {
		s := setupTestStore(t)
		if _, err := s.CreatePost(samplePost(slug)); !errors.Is(err, ErrInvalidSlug) {
			t.Errorf("CreatePost(%q) error = %v, want ErrInvalidSlug", slug, err)
		}
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetPost("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostRejectsTraversal(t *testing.T) {
	s := setupTestStore(t)

	// A file outside the store directory must not be reachable via slug tricks.
	outside := filepath.Join(filepath.Dir(s.dir), "secret.json")
	if err := os.WriteFile(outside, []byte(`{"slug":"secret"}`), 0o644); err != nil {
		t.Fatalf("write outside file: %v", err)
	}

	for _, slug := range []string{"../secret", "..", ".", "a/b", "a\\b", "%2e%2e%2fsecret"} {
		if _, err := s.GetPost(slug); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPost(%q) error = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestListPostsEmpty(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if got == nil {
		t.Fatal("ListPosts should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("ListPosts count = %d, want 0", len(got))
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	s := setupTestStore(t)

	dates := map[string]string{
		"oldest": "2023-06-01",
		"newest": "2025-03-10",
		"middle": "2024-01-15",
	}
	for slug, date := range dates {
		p := samplePost(slug)
		p.Date = date
		if _, err := s.CreatePost(p); err != nil {
			t.Fatalf("CreatePost(%s) failed: %v", slug, err)
		}
	}

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3", len(got))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if got[i].Slug != want {
			t.Errorf("ListPosts[%d].Slug = %q, want %q", i, got[i].Slug, want)
		}
	}
}

func TestListPostsOmitsContent(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(samplePost("summary-check")); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListPosts count = %d, want 1", len(got))
	}
	sum := got[0]
	if sum.Slug != "summary-check" || sum.Title != "Test Post" || sum.Date != "2024-01-15" || sum.Description != "A test post" {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if sum.CreatedAt == "" {
		t.Error("summary should carry CreatedAt")
	}
}

func TestListPostsIgnoresNonJSON(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(samplePost("real-post")); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, "README.md"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	got, err := s.ListPosts()
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ListPosts count = %d, want 1", len(got))
	}
}

func TestListPostsCorruptFile(t *testing.T) {
	s := setupTestStore(t)

	if err := os.WriteFile(filepath.Join(s.dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if _, err := s.ListPosts(); err == nil {
		t.Error("ListPosts should fail on a corrupt document")
	}
}

func TestCreatePostIsPrettyPrinted(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.CreatePost(samplePost("pretty")); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, "pretty.json"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if data[0] != '{' || !containsIndented(data) {
		t.Errorf("stored document should be indented JSON, got %q", data[:min(40, len(data))])
	}
}

func containsIndented(data []byte) bool {
	for i := 0; i+2 < len(data); i++ {
		if data[i] == '\n' && data[i+1] == ' ' && data[i+2] == ' ' {
			return true
		}
	}
	return false
}
