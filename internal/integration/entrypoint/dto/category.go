// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetree/backend/internal/application/usecase/category"
	"github.com/budgetree/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for category creation.
type CreateCategoryRequest struct {
	Name      string  `json:"name" binding:"required,min=1,max=100"`
	Type      string  `json:"type" binding:"required,oneof=expense income"`
	ParentID  *string `json:"parent_id,omitempty"`
	Color     string  `json:"color,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	IsDefault bool    `json:"is_default,omitempty"`
}

// UpdateCategoryRequest represents the request body for category update.
// Absent fields are left unchanged; an empty parent_id moves the category to
// the root level.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Type      *string `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
	ParentID  *string `json:"parent_id,omitempty"`
}

// CategoryResponse represents a single category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	IsDefault bool      `json:"is_default"`
	ParentID  *string   `json:"parent_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Pagination PaginationResponse `json:"pagination"`
}

// CategoryChildrenResponse represents the response for a children listing.
type CategoryChildrenResponse struct {
	Children []CategoryResponse `json:"children"`
}

// CategoryNodeResponse represents one node of the hierarchy view.
type CategoryNodeResponse struct {
	CategoryResponse
	Level    int                    `json:"level"`
	Path     []string               `json:"path"`
	Children []CategoryNodeResponse `json:"children"`
}

// CategoryHierarchyResponse represents the full hierarchy view.
type CategoryHierarchyResponse struct {
	Categories []CategoryNodeResponse `json:"categories"`
}

// CategoryPathResponse represents the breadcrumb view of a category.
type CategoryPathResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Names      []string           `json:"names"`
	Depth      int                `json:"depth"`
}

// CategoryStatsResponse represents the aggregate statistics view.
type CategoryStatsResponse struct {
	TotalActive            int     `json:"total_active"`
	ExpenseCount           int     `json:"expense_count"`
	IncomeCount            int     `json:"income_count"`
	RootCount              int     `json:"root_count"`
	CategoriesWithChildren int     `json:"categories_with_children"`
	AverageDepth           float64 `json:"average_depth"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(cat *entity.Category) CategoryResponse {
	var parentID *string
	if cat.ParentID != nil {
		id := cat.ParentID.String()
		parentID = &id
	}

	return CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		Type:      string(cat.Type),
		Color:     cat.Color,
		Icon:      cat.Icon,
		IsDefault: cat.IsDefault,
		ParentID:  parentID,
		IsActive:  cat.IsActive,
		CreatedAt: cat.CreatedAt,
		UpdatedAt: cat.UpdatedAt,
	}
}

// ToCategoryResponses converts a list of entities to response DTOs.
func ToCategoryResponses(categories []*entity.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		responses[i] = ToCategoryResponse(cat)
	}
	return responses
}

// ToCategoryListResponse converts a list use case output to a CategoryListResponse.
func ToCategoryListResponse(output *category.ListCategoriesOutput) CategoryListResponse {
	return CategoryListResponse{
		Categories: ToCategoryResponses(output.Categories),
		Pagination: PaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}

// ToCategoryNodeResponse converts a hierarchy node to a CategoryNodeResponse.
func ToCategoryNodeResponse(node *entity.CategoryNode) CategoryNodeResponse {
	children := make([]CategoryNodeResponse, len(node.Children))
	for i, child := range node.Children {
		children[i] = ToCategoryNodeResponse(child)
	}

	return CategoryNodeResponse{
		CategoryResponse: ToCategoryResponse(node.Category),
		Level:            node.Level,
		Path:             node.Path,
		Children:         children,
	}
}

// ToCategoryHierarchyResponse converts a hierarchy output to the response DTO.
func ToCategoryHierarchyResponse(output *category.GetHierarchyOutput) CategoryHierarchyResponse {
	roots := make([]CategoryNodeResponse, len(output.Roots))
	for i, root := range output.Roots {
		roots[i] = ToCategoryNodeResponse(root)
	}
	return CategoryHierarchyResponse{
		Categories: roots,
	}
}

// ToCategoryPathResponse converts a path output to the response DTO.
func ToCategoryPathResponse(output *category.GetCategoryPathOutput) CategoryPathResponse {
	return CategoryPathResponse{
		Categories: ToCategoryResponses(output.Categories),
		Names:      output.Names,
		Depth:      output.Depth,
	}
}

// ToCategoryStatsResponse converts a stats output to the response DTO.
func ToCategoryStatsResponse(output *category.GetCategoryStatsOutput) CategoryStatsResponse {
	return CategoryStatsResponse{
		TotalActive:            output.Stats.TotalActive,
		ExpenseCount:           output.Stats.ExpenseCount,
		IncomeCount:            output.Stats.IncomeCount,
		RootCount:              output.Stats.RootCount,
		CategoriesWithChildren: output.Stats.CategoriesWithChildren,
		AverageDepth:           output.Stats.AverageDepth,
	}
}
