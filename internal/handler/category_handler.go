package handler

import (
	"net/http"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles the global category list
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		return handleServiceError(c, err, 0, "get categories")
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// AddCategory handles POST /api/v1/categories
func (h *CategoryHandler) AddCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	categories, err := h.categoryService.AddCategory(req.Name)
	if err != nil {
		return handleServiceError(c, err, 0, "add category")
	}
	return c.JSON(http.StatusCreated, CategoriesResponse{Categories: categories})
}

// RemoveCategory handles DELETE /api/v1/categories/:name
func (h *CategoryHandler) RemoveCategory(c echo.Context) error {
	categories, err := h.categoryService.RemoveCategory(c.Param("name"))
	if err != nil {
		return handleServiceError(c, err, 0, "remove category")
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// ResetCategories handles POST /api/v1/categories/reset
func (h *CategoryHandler) ResetCategories(c echo.Context) error {
	categories, err := h.categoryService.ResetCategories()
	if err != nil {
		return handleServiceError(c, err, 0, "reset categories")
	}
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}
