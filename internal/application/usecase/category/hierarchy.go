// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
)

// GetHierarchyInput represents the input for the hierarchy view.
type GetHierarchyInput struct {
	UserID          uuid.UUID
	Type            *entity.CategoryType
	IncludeInactive bool
}

// GetHierarchyOutput represents the output of the hierarchy view.
type GetHierarchyOutput struct {
	Roots []*entity.CategoryNode
}

// GetHierarchyUseCase builds the full tree view of one user's forest. The
// whole forest is loaded flat in a single query and assembled in memory over
// an identity-keyed map; no per-node queries are issued.
type GetHierarchyUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetHierarchyUseCase creates a new GetHierarchyUseCase instance.
func NewGetHierarchyUseCase(categoryRepo adapter.CategoryRepository) *GetHierarchyUseCase {
	return &GetHierarchyUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute returns the user's root categories, each carrying its full subtree.
// Every node is annotated with its level (roots are 0) and its root-to-node
// name path. Siblings keep the repository's name ordering.
func (uc *GetHierarchyUseCase) Execute(ctx context.Context, input GetHierarchyInput) (*GetHierarchyOutput, error) {
	categories, err := uc.categoryRepo.FindForest(ctx, input.UserID, input.Type, input.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to load category forest: %w", err)
	}

	// Group children by parent, preserving the repository's name order.
	childrenByParent := make(map[uuid.UUID][]*entity.Category, len(categories))
	var roots []*entity.Category
	for _, cat := range categories {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else {
			childrenByParent[*cat.ParentID] = append(childrenByParent[*cat.ParentID], cat)
		}
	}

	output := &GetHierarchyOutput{
		Roots: make([]*entity.CategoryNode, 0, len(roots)),
	}
	for _, root := range roots {
		output.Roots = append(output.Roots, buildSubtree(root, childrenByParent, 0, nil))
	}

	return output, nil
}

// buildSubtree assembles one node and recurses over its children. The path
// slice is copied per node so sibling subtrees never share backing arrays.
func buildSubtree(cat *entity.Category, childrenByParent map[uuid.UUID][]*entity.Category, level int, parentPath []string) *entity.CategoryNode {
	path := make([]string, 0, len(parentPath)+1)
	path = append(path, parentPath...)
	path = append(path, cat.Name)

	node := &entity.CategoryNode{
		Category: cat,
		Level:    level,
		Path:     path,
	}

	for _, child := range childrenByParent[cat.ID] {
		node.Children = append(node.Children, buildSubtree(child, childrenByParent, level+1, path))
	}

	return node
}
