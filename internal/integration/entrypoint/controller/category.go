// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/usecase/category"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
	"github.com/budgetree/backend/internal/integration/entrypoint/dto"
	"github.com/budgetree/backend/internal/integration/entrypoint/middleware"
)

// CategoryController handles category endpoints.
type CategoryController struct {
	createUseCase    *category.CreateCategoryUseCase
	updateUseCase    *category.UpdateCategoryUseCase
	deleteUseCase    *category.DeleteCategoryUseCase
	getUseCase       *category.GetCategoryUseCase
	childrenUseCase  *category.GetChildrenUseCase
	listUseCase      *category.ListCategoriesUseCase
	hierarchyUseCase *category.GetHierarchyUseCase
	pathUseCase      *category.GetCategoryPathUseCase
	statsUseCase     *category.GetCategoryStatsUseCase
}

// NewCategoryController creates a new category controller instance.
func NewCategoryController(
	createUseCase *category.CreateCategoryUseCase,
	updateUseCase *category.UpdateCategoryUseCase,
	deleteUseCase *category.DeleteCategoryUseCase,
	getUseCase *category.GetCategoryUseCase,
	childrenUseCase *category.GetChildrenUseCase,
	listUseCase *category.ListCategoriesUseCase,
	hierarchyUseCase *category.GetHierarchyUseCase,
	pathUseCase *category.GetCategoryPathUseCase,
	statsUseCase *category.GetCategoryStatsUseCase,
) *CategoryController {
	return &CategoryController{
		createUseCase:    createUseCase,
		updateUseCase:    updateUseCase,
		deleteUseCase:    deleteUseCase,
		getUseCase:       getUseCase,
		childrenUseCase:  childrenUseCase,
		listUseCase:      listUseCase,
		hierarchyUseCase: hierarchyUseCase,
		pathUseCase:      pathUseCase,
		statsUseCase:     statsUseCase,
	}
}

// Create handles POST /categories requests.
func (c *CategoryController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingCategoryFields),
		})
		return
	}

	input := category.CreateCategoryInput{
		UserID:    userID,
		Name:      req.Name,
		Type:      entity.CategoryType(req.Type),
		Color:     req.Color,
		Icon:      req.Icon,
		IsDefault: req.IsDefault,
	}

	if req.ParentID != nil && *req.ParentID != "" {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid parent category ID format",
			})
			return
		}
		input.ParentID = &parentID
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(output.Category))
}

// List handles GET /categories requests.
func (c *CategoryController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	input := category.ListCategoriesInput{
		UserID:          userID,
		Search:          ctx.Query("search"),
		IncludeInactive: ctx.Query("includeInactive") == "true",
	}

	if categoryType := ctx.Query("type"); categoryType != "" {
		catType := entity.CategoryType(categoryType)
		input.Type = &catType
	}
	if parentIDStr := ctx.Query("parentId"); parentIDStr != "" {
		if parentIDStr == "root" {
			input.RootsOnly = true
		} else {
			parentID, err := uuid.Parse(parentIDStr)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error: "Invalid parent category ID format",
				})
				return
			}
			input.ParentID = &parentID
		}
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(output))
}

// Get handles GET /categories/:id requests.
func (c *CategoryController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), category.GetCategoryInput{
		CategoryID:      categoryID,
		UserID:          userID,
		IncludeInactive: ctx.Query("includeInactive") == "true",
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(output.Category))
}

// Update handles PATCH /categories/:id requests.
func (c *CategoryController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := category.UpdateCategoryInput{
		CategoryID: categoryID,
		UserID:     userID,
		Name:       req.Name,
		Color:      req.Color,
		Icon:       req.Icon,
		IsDefault:  req.IsDefault,
	}

	if req.Type != nil {
		catType := entity.CategoryType(*req.Type)
		input.Type = &catType
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			input.ClearParent = true
		} else {
			parentID, err := uuid.Parse(*req.ParentID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error: "Invalid parent category ID format",
				})
				return
			}
			input.ParentID = &parentID
		}
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryResponse(output.Category))
}

// Delete handles DELETE /categories/:id requests.
func (c *CategoryController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), category.DeleteCategoryInput{
		CategoryID: categoryID,
		UserID:     userID,
		Cascade:    ctx.Query("cascade") == "true",
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Children handles GET /categories/:id/children requests.
func (c *CategoryController) Children(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	output, err := c.childrenUseCase.Execute(ctx.Request.Context(), category.GetChildrenInput{
		CategoryID:      categoryID,
		UserID:          userID,
		IncludeInactive: ctx.Query("includeInactive") == "true",
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CategoryChildrenResponse{
		Children: dto.ToCategoryResponses(output.Children),
	})
}

// Hierarchy handles GET /categories/hierarchy requests.
func (c *CategoryController) Hierarchy(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	input := category.GetHierarchyInput{
		UserID:          userID,
		IncludeInactive: ctx.Query("includeInactive") == "true",
	}
	if categoryType := ctx.Query("type"); categoryType != "" {
		catType := entity.CategoryType(categoryType)
		input.Type = &catType
	}

	output, err := c.hierarchyUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryHierarchyResponse(output))
}

// Path handles GET /categories/:id/path requests.
func (c *CategoryController) Path(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	categoryID, ok := parseCategoryID(ctx)
	if !ok {
		return
	}

	output, err := c.pathUseCase.Execute(ctx.Request.Context(), category.GetCategoryPathInput{
		CategoryID: categoryID,
		UserID:     userID,
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryPathResponse(output))
}

// Stats handles GET /categories/stats requests.
func (c *CategoryController) Stats(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	output, err := c.statsUseCase.Execute(ctx.Request.Context(), category.GetCategoryStatsInput{
		UserID: userID,
	})
	if err != nil {
		c.handleCategoryError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryStatsResponse(output))
}

// handleCategoryError handles category errors and returns appropriate HTTP responses.
func (c *CategoryController) handleCategoryError(ctx *gin.Context, err error) {
	var catErr *domainerror.CategoryError
	if errors.As(err, &catErr) {
		ctx.JSON(statusCodeForCategoryError(catErr.Code), dto.ErrorResponse{
			Error: catErr.Message,
			Code:  string(catErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForCategoryError maps category error codes to HTTP status codes.
func statusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedCategory:
		return http.StatusForbidden
	case domainerror.ErrCodeCategoryNameExists,
		domainerror.ErrCodeCategoryHasChildren,
		domainerror.ErrCodeCategoryInUse:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidParent,
		domainerror.ErrCodeTypeConflict,
		domainerror.ErrCodeCircularReference,
		domainerror.ErrCodeMaxDepthExceeded:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeCategoryNameInvalid,
		domainerror.ErrCodeInvalidColorFormat,
		domainerror.ErrCodeIconTooLong,
		domainerror.ErrCodeInvalidCategoryType,
		domainerror.ErrCodeMissingCategoryFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseCategoryID parses the :id path parameter, writing the error response itself.
func parseCategoryID(ctx *gin.Context) (uuid.UUID, bool) {
	categoryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
		})
		return uuid.Nil, false
	}
	return categoryID, true
}

// unauthorized writes the canonical unauthenticated response.
func unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
