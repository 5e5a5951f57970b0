package usecase

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryCycle    = errors.New("category cycle rejected")
)

// TreeNode is a category rendered with its children embedded, the shape the
// tree endpoint returns and the tree cache stores.
type TreeNode struct {
	Value    int64       `json:"value"`
	Title    string      `json:"title"`
	Children []*TreeNode `json:"children"`
	Image    []ImageRef  `json:"image"`
}

type ImageRef struct {
	ID  int64  `json:"id"`
	Img string `json:"img"`
}

// TreeCache keeps rendered trees keyed by root. Implementations return a nil
// slice and nil error on a miss.
type TreeCache interface {
	GetTree(ctx context.Context, key string) ([]*TreeNode, error)
	SetTree(ctx context.Context, key string, nodes []*TreeNode) error
	Invalidate(ctx context.Context) error
}

type CategoryUsecase struct {
	repo   domain.CategoryRepository
	cache  TreeCache
	logger *zap.Logger
}

func NewCategoryUsecase(repo domain.CategoryRepository, cache TreeCache, logger *zap.Logger) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, cache: cache, logger: logger}
}

// Tree returns the queried category followed by all of its descendants, each
// node rendered with its children embedded. With rootID nil it returns the
// root categories instead.
func (uc *CategoryUsecase) Tree(ctx context.Context, rootID *int64) ([]*TreeNode, error) {
	key := "tree:roots"
	if rootID != nil {
		key = "tree:" + strconv.FormatInt(*rootID, 10)
	}
	if uc.cache != nil {
		if nodes, err := uc.cache.GetTree(ctx, key); err == nil && nodes != nil {
			return nodes, nil
		}
	}

	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("CategoryUsecase.Tree: failed to load categories", zap.Error(err))
		return nil, err
	}
	byID := make(map[int64]*domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	index := domain.BuildChildIndex(categories)

	var ids []int64
	if rootID == nil {
		for _, c := range categories {
			if c.ParentID == nil {
				ids = append(ids, c.ID)
			}
		}
	} else {
		if _, ok := byID[*rootID]; !ok {
			return nil, ErrCategoryNotFound
		}
		// Clients expect descendants first, the queried category last.
		subtree := domain.Subtree(*rootID, index)
		ids = append(ids, subtree[1:]...)
		ids = append(ids, *rootID)
	}

	nodes := make([]*TreeNode, 0, len(ids))
	for _, id := range ids {
		node, err := uc.renderNode(ctx, id, byID, index, map[int64]bool{})
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if uc.cache != nil {
		if err := uc.cache.SetTree(ctx, key, nodes); err != nil {
			uc.logger.Warn("CategoryUsecase.Tree: failed to cache tree", zap.Error(err))
		}
	}
	return nodes, nil
}

func (uc *CategoryUsecase) renderNode(ctx context.Context, id int64, byID map[int64]*domain.Category, index domain.ChildIndex, visited map[int64]bool) (*TreeNode, error) {
	category := byID[id]
	images, err := uc.repo.ImagesByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	refs := make([]ImageRef, 0, len(images))
	for _, img := range images {
		refs = append(refs, ImageRef{ID: img.ID, Img: img.Image})
	}
	node := &TreeNode{Value: category.ID, Title: category.Name, Children: []*TreeNode{}, Image: refs}
	visited[id] = true
	for _, childID := range index[id] {
		if visited[childID] {
			continue
		}
		child, err := uc.renderNode(ctx, childID, byID, index, visited)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	delete(visited, id)
	return node, nil
}

// Roots returns top-level categories for the flat category list endpoint.
func (uc *CategoryUsecase) Roots(ctx context.Context) ([]*domain.Category, error) {
	return uc.repo.FindRoots(ctx)
}

// Descendants expands a category id into the id set of its subtree, the
// queried id included. Shared by the tree endpoint and the search filter.
func (uc *CategoryUsecase) Descendants(ctx context.Context, id int64) ([]int64, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, c := range categories {
		if c.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCategoryNotFound
	}
	return domain.Subtree(id, domain.BuildChildIndex(categories)), nil
}

// CreateCategory inserts a category, rejecting parents that do not exist or
// whose chain is corrupted into a cycle. Admin-only, enforced by the handler.
func (uc *CategoryUsecase) CreateCategory(ctx context.Context, name string, parentID *int64) (*domain.Category, error) {
	uc.logger.Info("CategoryUsecase.CreateCategory: creating category",
		zap.String("name", name))

	if parentID != nil {
		categories, err := uc.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		parents := make(map[int64]int64, len(categories))
		exists := false
		for _, c := range categories {
			if c.ID == *parentID {
				exists = true
			}
			if c.ParentID != nil {
				parents[c.ID] = *c.ParentID
			}
		}
		if !exists {
			return nil, ErrCategoryNotFound
		}
		// A fresh id cannot be on the parent chain, so this only trips
		// on pre-existing corruption. 0 is never a valid id.
		if domain.WouldCycle(0, *parentID, parents) {
			return nil, ErrCategoryCycle
		}
	}

	category := &domain.Category{Name: name, ParentID: parentID}
	if err := uc.repo.Create(ctx, category); err != nil {
		uc.logger.Error("CategoryUsecase.CreateCategory: failed to create category",
			zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("CategoryUsecase.CreateCategory: failed to invalidate tree cache", zap.Error(err))
		}
	}
	return category, nil
}

