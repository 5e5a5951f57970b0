package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type memoryTreeCache struct {
	trees       map[string][]*TreeNode
	invalidated int
}

func newMemoryTreeCache() *memoryTreeCache {
	return &memoryTreeCache{trees: map[string][]*TreeNode{}}
}

func (c *memoryTreeCache) GetTree(_ context.Context, key string) ([]*TreeNode, error) {
	return c.trees[key], nil
}

func (c *memoryTreeCache) SetTree(_ context.Context, key string, nodes []*TreeNode) error {
	c.trees[key] = nodes
	return nil
}

func (c *memoryTreeCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.trees = map[string][]*TreeNode{}
	return nil
}

func categoryFixture() *fakeCategoryRepo {
	// Transport
	// ├── Cars
	// │   └── Sedans
	// └── Bikes
	// Services
	return newFakeCategoryRepo(
		&domain.Category{ID: 1, Name: "Transport"},
		&domain.Category{ID: 2, Name: "Cars", ParentID: ptr(int64(1))},
		&domain.Category{ID: 3, Name: "Bikes", ParentID: ptr(int64(1))},
		&domain.Category{ID: 4, Name: "Sedans", ParentID: ptr(int64(2))},
		&domain.Category{ID: 5, Name: "Services"},
	)
}

func TestTreeRoots(t *testing.T) {
	uc := NewCategoryUsecase(categoryFixture(), nil, testLogger())

	nodes, err := uc.Tree(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, int64(1), nodes[0].Value)
	assert.Equal(t, "Transport", nodes[0].Title)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "Cars", nodes[0].Children[0].Title)
	require.Len(t, nodes[0].Children[0].Children, 1)
	assert.Equal(t, "Sedans", nodes[0].Children[0].Children[0].Title)

	assert.Equal(t, "Services", nodes[1].Title)
	assert.Empty(t, nodes[1].Children)
}

func TestTreeForCategoryListsDescendantsFirst(t *testing.T) {
	uc := NewCategoryUsecase(categoryFixture(), nil, testLogger())

	rootID := int64(1)
	nodes, err := uc.Tree(context.Background(), &rootID)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	// The queried category comes last, after its descendants.
	assert.Equal(t, int64(1), nodes[len(nodes)-1].Value)
	var values []int64
	for _, n := range nodes {
		values = append(values, n.Value)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, values)
}

func TestTreeUnknownCategory(t *testing.T) {
	uc := NewCategoryUsecase(categoryFixture(), nil, testLogger())

	unknown := int64(99)
	_, err := uc.Tree(context.Background(), &unknown)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestTreeUsesCache(t *testing.T) {
	cache := newMemoryTreeCache()
	uc := NewCategoryUsecase(categoryFixture(), cache, testLogger())

	first, err := uc.Tree(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, cache.trees, "tree:roots")

	// A second call is served from the cache even if the backing data moved.
	cache.trees["tree:roots"] = []*TreeNode{{Value: 42, Title: "cached"}}
	second, err := uc.Tree(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int64(42), second[0].Value)
}

func TestDescendants(t *testing.T) {
	uc := NewCategoryUsecase(categoryFixture(), nil, testLogger())

	ids, err := uc.Descendants(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ids[0])
	assert.ElementsMatch(t, []int64{1, 2, 3, 4}, ids)

	ids, err = uc.Descendants(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)

	_, err = uc.Descendants(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateCategory(t *testing.T) {
	repo := categoryFixture()
	cache := newMemoryTreeCache()
	uc := NewCategoryUsecase(repo, cache, testLogger())

	category, err := uc.CreateCategory(context.Background(), "Trucks", ptr(int64(2)))
	require.NoError(t, err)
	assert.NotZero(t, category.ID)
	assert.Equal(t, 1, cache.invalidated, "tree cache dropped on mutation")

	_, err = uc.CreateCategory(context.Background(), "Orphan", ptr(int64(99)))
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	root, err := uc.CreateCategory(context.Background(), "Realty", nil)
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)
}

func TestCreateCategoryRejectsCorruptedChain(t *testing.T) {
	// 2 and 3 parent each other; inserting under either must be refused.
	repo := newFakeCategoryRepo(
		&domain.Category{ID: 2, Name: "A", ParentID: ptr(int64(3))},
		&domain.Category{ID: 3, Name: "B", ParentID: ptr(int64(2))},
	)
	uc := NewCategoryUsecase(repo, nil, testLogger())

	_, err := uc.CreateCategory(context.Background(), "C", ptr(int64(2)))
	assert.ErrorIs(t, err, ErrCategoryCycle)
}
