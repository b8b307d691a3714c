package article

import (
	"context"
	"errors"
	"sync"

	"github.com/SergeyParamoshkin/wiki/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("article not found")

// Store is the article collection. Lookups by title act on the first
// matching article; titles are not unique.
type Store interface {
	List(ctx context.Context) ([]*model.Article, error)
	Create(ctx context.Context, article *model.Article) error
	DeleteAll(ctx context.Context) error
	FindByTitle(ctx context.Context, title string) (*model.Article, error)
	Replace(ctx context.Context, title string, article *model.Article) error
	Update(ctx context.Context, title string, update model.ArticleUpdate) error
	Delete(ctx context.Context, title string) error
}

// MemoryStore implements Store in-memory (for dev mode and tests).
type MemoryStore struct {
	mu       sync.Mutex
	articles []*model.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) List(ctx context.Context) ([]*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Article, 0, len(m.articles))
	for _, a := range m.articles {
		c := *a
		out = append(out, &c)
	}

	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	article.ID = primitive.NewObjectID()
	c := *article
	m.articles = append(m.articles, &c)

	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.articles = nil

	return nil
}

func (m *MemoryStore) FindByTitle(ctx context.Context, title string) (*model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(title); i >= 0 {
		c := *m.articles[i]

		return &c, nil
	}

	return nil, ErrNotFound
}

func (m *MemoryStore) Replace(ctx context.Context, title string, article *model.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(title); i >= 0 {
		c := *article
		c.ID = m.articles[i].ID
		m.articles[i] = &c
	}

	return nil
}

func (m *MemoryStore) Update(ctx context.Context, title string, update model.ArticleUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(title); i >= 0 {
		update.Apply(m.articles[i])
	}

	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(title); i >= 0 {
		m.articles = append(m.articles[:i], m.articles[i+1:]...)
	}

	return nil
}

// indexOf must be called with mu held.
func (m *MemoryStore) indexOf(title string) int {
	for i, a := range m.articles {
		if a.Title == title {
			return i
		}
	}

	return -1
}
