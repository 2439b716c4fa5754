package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("blog post not found")
	// ErrExists is returned when creating a post whose slug is taken.
	ErrExists = errors.New("blog post already exists")
	// ErrInvalidSlug is returned when a slug is not filesystem-safe.
	ErrInvalidSlug = errors.New("invalid slug")
)

// slugPattern matches the slugs Slugify produces. Anything else — uppercase,
// dots, path separators — is rejected before it can reach the filesystem.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BlogStore persists blog posts as individual pretty-printed JSON files,
// one <slug>.json per post. The directory is the sole source of truth;
// every read goes back to disk.
type BlogStore struct {
	dir string
}

// NewBlogStore ensures dir exists and returns a store rooted there.
func NewBlogStore(dir string) (*BlogStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blog directory: %w", err)
	}
	return &BlogStore{dir: dir}, nil
}

func (s *BlogStore) path(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

// ListPosts reads every stored document and returns summaries sorted
// newest-first by date, ties broken by creation time.
func (s *BlogStore) ListPosts() ([]BlogSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read blog directory: %w", err)
	}
	summaries := make([]BlogSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var post BlogPost
		if err := json.Unmarshal(data, &post); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		summaries = append(summaries, BlogSummary{
			Slug:        post.Slug,
			Title:       post.Title,
			Date:        post.Date,
			Description: post.Description,
			CreatedAt:   post.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date > summaries[j].Date
		}
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// GetPost returns the full document for slug. Slugs that fail the pattern
// check are reported as not found without touching the filesystem.
func (s *BlogStore) GetPost(slug string) (BlogPost, error) {
	if !slugPattern.MatchString(slug) {
		return BlogPost{}, ErrNotFound
	}
	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return BlogPost{}, ErrNotFound
		}
		return BlogPost{}, fmt.Errorf("read post %s: %w", slug, err)
	}
	var post BlogPost
	if err := json.Unmarshal(data, &post); err != nil {
		return BlogPost{}, fmt.Errorf("parse post %s: %w", slug, err)
	}
	return post, nil
}

// CreatePost writes a new document and returns it with server-assigned
// timestamps. The exclusive-create open mode makes the duplicate check and
// the write a single atomic operation, so two concurrent creates for the
// same slug cannot overwrite each other.
func (s *BlogStore) CreatePost(post BlogPost) (BlogPost, error) {
	if !slugPattern.MatchString(post.Slug) {
		return BlogPost{}, ErrInvalidSlug
	}
	now := time.Now().UTC().Format(time.RFC3339)
	post.CreatedAt = now
	post.UpdatedAt = now

	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return BlogPost{}, fmt.Errorf("encode post %s: %w", post.Slug, err)
	}
	f, err := os.OpenFile(s.path(post.Slug), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return BlogPost{}, ErrExists
		}
		return BlogPost{}, fmt.Errorf("create post %s: %w", post.Slug, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return BlogPost{}, fmt.Errorf("write post %s: %w", post.Slug, err)
	}
	if err := f.Close(); err != nil {
		return BlogPost{}, fmt.Errorf("write post %s: %w", post.Slug, err)
	}
	return post, nil
}
