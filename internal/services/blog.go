package services

import (
	"sort"
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

const excerptLength = 160

type BlogService struct {
	store *store.Store
	posts *store.Collection[models.BlogPost]
}

type BlogPostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

func NewBlogService(s *store.Store) *BlogService {
	return &BlogService{
		store: s,
		posts: store.NewCollection[models.BlogPost](s, store.BlogPosts),
	}
}

func makeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return strings.TrimSpace(string(runes[:excerptLength])) + "..."
}

func parseBlogStatus(raw string, fallback models.BlogStatus) (models.BlogStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return fallback, nil
	}
	st := models.BlogStatus(raw)
	if !st.Valid() {
		return "", validationError("status must be draft or published")
	}
	return st, nil
}

// ListPosts returns posts with the given status (published by default),
// newest first.
func (s *BlogService) ListPosts(status string) ([]models.BlogPost, error) {
	st, err := parseBlogStatus(status, models.BlogPublished)
	if err != nil {
		return nil, err
	}

	defer s.store.RLock(store.BlogPosts)()

	posts, err := s.posts.Load()
	if err != nil {
		return nil, err
	}
	out := store.Filter(posts, func(p models.BlogPost) bool { return p.Status == st })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// GetPost returns a post and counts the view.
func (s *BlogService) GetPost(id int) (*models.BlogPost, error) {
	defer s.store.Lock(store.BlogPosts)()

	posts, err := s.posts.Load()
	if err != nil {
		return nil, err
	}
	post, _ := store.Find(posts, id)
	if post == nil {
		return nil, notFoundError("blog post not found")
	}
	post.Views++
	if err := s.posts.Save(posts); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) CreatePost(author string, req BlogPostRequest) (*models.BlogPost, error) {
	title := utils.SanitizeString(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, validationError("title and content are required")
	}
	status, err := parseBlogStatus(req.Status, models.BlogDraft)
	if err != nil {
		return nil, err
	}
	excerpt := utils.SanitizeString(req.Excerpt)
	if excerpt == "" {
		excerpt = makeExcerpt(content)
	}
	if a := utils.SanitizeString(req.Author); a != "" {
		author = a
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	defer s.store.Lock(store.BlogPosts)()

	posts, err := s.posts.Load()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	post := models.BlogPost{
		ID:        store.NextID(posts),
		Title:     title,
		Content:   content,
		Excerpt:   excerpt,
		Author:    author,
		Tags:      tags,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Save(append(posts, post)); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *BlogService) UpdatePost(id int, req BlogPostRequest) (*models.BlogPost, error) {
	var status models.BlogStatus
	if req.Status != "" {
		st, err := parseBlogStatus(req.Status, "")
		if err != nil {
			return nil, err
		}
		status = st
	}

	defer s.store.Lock(store.BlogPosts)()

	posts, err := s.posts.Load()
	if err != nil {
		return nil, err
	}
	post, _ := store.Find(posts, id)
	if post == nil {
		return nil, notFoundError("blog post not found")
	}

	if v := utils.SanitizeString(req.Title); v != "" {
		post.Title = v
	}
	if v := strings.TrimSpace(req.Content); v != "" {
		post.Content = v
		if strings.TrimSpace(req.Excerpt) == "" {
			post.Excerpt = makeExcerpt(v)
		}
	}
	if v := utils.SanitizeString(req.Excerpt); v != "" {
		post.Excerpt = v
	}
	if v := utils.SanitizeString(req.Author); v != "" {
		post.Author = v
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if status != "" {
		post.Status = status
	}
	post.UpdatedAt = time.Now()

	if err := s.posts.Save(posts); err != nil {
		return nil, err
	}
	return post, nil
}
