package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-cms/pkg/access"
	"github.com/adfharrison1/go-cms/pkg/domain"
	"github.com/adfharrison1/go-cms/pkg/schema"
	"github.com/adfharrison1/go-cms/pkg/storage"
)

// publishedOrAuthenticated is the canonical scoped read rule: logged-in
// users see everything, anonymous readers only published posts.
func publishedOrAuthenticated(ctx context.Context, ac access.Context) (access.Decision, error) {
	if ac.User != nil {
		return access.Allow(), nil
	}
	return access.AllowWhere(domain.Where{"published": true}), nil
}

func newPostsCMS(t *testing.T, options ...Option) *CMS {
	t.Helper()
	cfg := schema.Config{
		Collections: []schema.Collection{{
			Name:       "posts",
			Timestamps: true,
			Fields: []schema.Field{
				{Name: "title", Type: schema.FieldText, Required: true},
				{Name: "published", Type: schema.FieldCheckbox, DefaultValue: false},
			},
			Access: schema.AccessRules{Read: publishedOrAuthenticated},
		}},
	}
	engine := storage.NewEngine(storage.WithCollection("posts", storage.CollectionOptions{Timestamps: true}))
	cms, err := New(cfg, engine, options...)
	require.NoError(t, err)
	return cms
}

func TestRoundTrip_CreateThenFindByID(t *testing.T) {
	cms := newPostsCMS(t)
	user := &domain.User{ID: "u1"}

	created, err := cms.Create(context.Background(), "posts", domain.Document{"title": "hello", "published": true}, user)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())
	assert.NotNil(t, created[domain.FieldCreatedAt])
	assert.NotNil(t, created[domain.FieldUpdatedAt])

	found, err := cms.FindByID(context.Background(), "posts", created.ID(), user)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "hello", found["title"])
	assert.Equal(t, true, found["published"])
	assert.Equal(t, created.ID(), found.ID())
}

func TestFind_PaginationArithmetic(t *testing.T) {
	cms := newPostsCMS(t)
	user := &domain.User{ID: "u1"}

	for i := 0; i < 25; i++ {
		_, err := cms.Create(context.Background(), "posts", domain.Document{"title": fmt.Sprintf("post %02d", i)}, user)
		require.NoError(t, err)
	}

	result, err := cms.Find(context.Background(), "posts", domain.FindOptions{Limit: 10, Offset: 20}, user)
	require.NoError(t, err)

	assert.Equal(t, 25, result.TotalDocs)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 3, result.Page)
	assert.False(t, result.HasNextPage)
	assert.True(t, result.HasPrevPage)
	assert.Len(t, result.Docs, 5)
}

func TestFind_DefaultLimit(t *testing.T) {
	cms := newPostsCMS(t)
	user := &domain.User{ID: "u1"}

	for i := 0; i < 12; i++ {
		_, err := cms.Create(context.Background(), "posts", domain.Document{"title": fmt.Sprintf("post %02d", i)}, user)
		require.NoError(t, err)
	}

	result, err := cms.Find(context.Background(), "posts", domain.FindOptions{}, user)
	require.NoError(t, err)

	assert.Equal(t, DefaultLimit, result.Limit)
	assert.Len(t, result.Docs, DefaultLimit)
	assert.Equal(t, 12, result.TotalDocs)
	assert.Equal(t, 2, result.TotalPages)
	assert.Equal(t, 1, result.Page)
	assert.True(t, result.HasNextPage)
	assert.False(t, result.HasPrevPage)
}

func TestScenario_AnonymousSeesOnlyPublishedPosts(t *testing.T) {
	cms := newPostsCMS(t)
	author := &domain.User{ID: "u1"}

	_, err := cms.Create(context.Background(), "posts", domain.Document{"title": "public", "published": true}, author)
	require.NoError(t, err)
	_, err = cms.Create(context.Background(), "posts", domain.Document{"title": "draft one"}, author)
	require.NoError(t, err)
	_, err = cms.Create(context.Background(), "posts", domain.Document{"title": "draft two"}, author)
	require.NoError(t, err)

	anonymous, err := cms.Find(context.Background(), "posts", domain.FindOptions{}, nil)
	require.NoError(t, err)
	require.Len(t, anonymous.Docs, 1)
	assert.Equal(t, "public", anonymous.Docs[0]["title"])

	authenticated, err := cms.Find(context.Background(), "posts", domain.FindOptions{}, author)
	require.NoError(t, err)
	assert.Len(t, authenticated.Docs, 3)

	count, err := cms.Count(context.Background(), "posts", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFind_CallerFilterCombinesWithResidual(t *testing.T) {
	cms := newPostsCMS(t)
	author := &domain.User{ID: "u1"}

	_, err := cms.Create(context.Background(), "posts", domain.Document{"title": "alpha", "published": true}, author)
	require.NoError(t, err)
	_, err = cms.Create(context.Background(), "posts", domain.Document{"title": "beta", "published": true}, author)
	require.NoError(t, err)
	_, err = cms.Create(context.Background(), "posts", domain.Document{"title": "alpha draft"}, author)
	require.NoError(t, err)

	// Anonymous caller filter on title combines with the published-only
	// residual filter: both conditions must hold.
	result, err := cms.Find(context.Background(), "posts", domain.FindOptions{
		Where: domain.Where{"title": domain.Where{"startsWith": "alpha"}},
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Docs, 1)
	assert.Equal(t, "alpha", result.Docs[0]["title"])
}
