package services

import (
	"sort"
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

const defaultHelpCategory = "General"

type HelpService struct {
	store    *store.Store
	articles *store.Collection[models.HelpArticle]
	votes    *store.Collection[models.HelpfulVote]
}

type HelpFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

type HelpArticleRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

func NewHelpService(s *store.Store) *HelpService {
	return &HelpService{
		store:    s,
		articles: store.NewCollection[models.HelpArticle](s, store.Help),
		votes:    store.NewCollection[models.HelpfulVote](s, store.HelpfulVotes),
	}
}

// ListArticles filters by category and text, most helpful first.
func (s *HelpService) ListArticles(f HelpFilter) ([]models.HelpArticle, error) {
	defer s.store.RLock(store.Help)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(f.Category)
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := store.Filter(articles, func(a models.HelpArticle) bool {
		if category != "" && !strings.EqualFold(a.Category, category) {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Question), q) && !strings.Contains(strings.ToLower(a.Answer), q) {
			return false
		}
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].HelpfulCount > out[j].HelpfulCount })
	return out, nil
}

func (s *HelpService) Categories() ([]string, error) {
	defer s.store.RLock(store.Help)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, a := range articles {
		if a.Category != "" && !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *HelpService) GetArticle(id int) (*models.HelpArticle, error) {
	defer s.store.RLock(store.Help)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}
	article, _ := store.Find(articles, id)
	if article == nil {
		return nil, notFoundError("help article not found")
	}
	return article, nil
}

func (s *HelpService) CreateArticle(req HelpArticleRequest) (*models.HelpArticle, error) {
	question := utils.SanitizeString(req.Question)
	answer := utils.SanitizeString(req.Answer)
	if question == "" || answer == "" {
		return nil, validationError("question and answer are required")
	}
	category := utils.SanitizeString(req.Category)
	if category == "" {
		category = defaultHelpCategory
	}

	defer s.store.Lock(store.Help)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	article := models.HelpArticle{
		ID:        store.NextID(articles),
		Question:  question,
		Answer:    answer,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.articles.Save(append(articles, article)); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle replaces the fields that are non-empty in req.
func (s *HelpService) UpdateArticle(id int, req HelpArticleRequest) (*models.HelpArticle, error) {
	defer s.store.Lock(store.Help)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}
	article, _ := store.Find(articles, id)
	if article == nil {
		return nil, notFoundError("help article not found")
	}

	if v := utils.SanitizeString(req.Question); v != "" {
		article.Question = v
	}
	if v := utils.SanitizeString(req.Answer); v != "" {
		article.Answer = v
	}
	if v := utils.SanitizeString(req.Category); v != "" {
		article.Category = v
	}
	article.UpdatedAt = time.Now()

	if err := s.articles.Save(articles); err != nil {
		return nil, err
	}
	return article, nil
}

// MarkHelpful records one vote per identity and article. The identity is
// user_<id> for signed-in callers and the client address otherwise.
func (s *HelpService) MarkHelpful(identity string, articleID int) (*models.HelpArticle, error) {
	if identity == "" {
		return nil, validationError("unable to identify caller")
	}

	defer s.store.Lock(store.Help, store.HelpfulVotes)()

	articles, err := s.articles.Load()
	if err != nil {
		return nil, err
	}
	article, _ := store.Find(articles, articleID)
	if article == nil {
		return nil, notFoundError("help article not found")
	}

	votes, err := s.votes.Load()
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v.HelpID == articleID && v.UserIdentifier == identity {
			return nil, duplicateError("already_helpful", "you have already marked this article as helpful")
		}
	}

	now := time.Now()
	votes = append(votes, models.HelpfulVote{
		ID:             store.NextID(votes),
		HelpID:         articleID,
		UserIdentifier: identity,
		CreatedAt:      now,
	})
	if err := s.votes.Save(votes); err != nil {
		return nil, err
	}

	article.HelpfulCount++
	article.UpdatedAt = now
	if err := s.articles.Save(articles); err != nil {
		return nil, err
	}
	return article, nil
}
