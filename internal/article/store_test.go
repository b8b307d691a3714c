package article

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/SergeyParamoshkin/wiki/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

// exerciseStore runs the same scenario against any Store implementation.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.DeleteAll(ctx))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	first := &model.Article{Title: "REST", Content: "first"}
	require.NoError(t, s.Create(ctx, first))
	assert.False(t, first.ID.IsZero())

	require.NoError(t, s.Create(ctx, &model.Article{Title: "REST", Content: "second"}))
	require.NoError(t, s.Create(ctx, &model.Article{Title: "API", Content: "other"}))

	got, err := s.FindByTitle(ctx, "REST")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "first", got.Content)

	_, err = s.FindByTitle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Update(ctx, "API", model.ArticleUpdate{Content: strp("patched")}))
	got, err = s.FindByTitle(ctx, "API")
	require.NoError(t, err)
	assert.Equal(t, "API", got.Title)
	assert.Equal(t, "patched", got.Content)

	require.NoError(t, s.Update(ctx, "API", model.ArticleUpdate{}))

	require.NoError(t, s.Replace(ctx, "API", &model.Article{Title: "API"}))
	got, err = s.FindByTitle(ctx, "API")
	require.NoError(t, err)
	assert.Empty(t, got.Content)

	require.NoError(t, s.Delete(ctx, "REST"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, "API", list[1].Title)

	require.NoError(t, s.Delete(ctx, "missing"))
	require.NoError(t, s.Replace(ctx, "missing", &model.Article{Title: "x"}))

	require.NoError(t, s.DeleteAll(ctx))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// exerciseEmptyFields checks that a replace with empty fields stores them
// and leaves the article findable by the empty title.
func exerciseEmptyFields(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.DeleteAll(ctx))
	require.NoError(t, s.Create(ctx, &model.Article{Title: "REST", Content: "state"}))
	require.NoError(t, s.Replace(ctx, "REST", &model.Article{}))

	got, err := s.FindByTitle(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
	assert.Equal(t, "", got.Content)

	require.NoError(t, s.Update(ctx, "", model.ArticleUpdate{Content: strp("back")}))

	got, err = s.FindByTitle(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "back", got.Content)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
	exerciseEmptyFields(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, &model.Article{Title: "REST", Content: "stored"}))

	got, err := s.FindByTitle(ctx, "REST")
	require.NoError(t, err)
	got.Content = "mutated"

	got, err = s.FindByTitle(ctx, "REST")
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Content)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("WIKI_MONGO_TEST_URI")
	if uri == "" {
		t.Skip("WIKI_MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "wikiDB_test", "articles", 5*time.Second)
	require.NoError(t, err)
	defer s.Close(ctx)

	exerciseStore(t, s)
	exerciseEmptyFields(t, s)
}
