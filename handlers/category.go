package handlers

import (
	"net/http"

	"blackmarket-backend/dtos"
	"blackmarket-backend/models"
	"blackmarket-backend/services"

	"github.com/gin-gonic/gin"
)

const errCategoryNotFound = "Category not found"

type CategoryHandler struct {
	Categories *services.CategoryService
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	skip, limit, ok := parsePage(c, 100, 500)
	if !ok {
		return
	}
	parentID, ok := queryUUID(c, "parent_id")
	if !ok {
		return
	}
	isActive, ok := queryBool(c, "is_active", nil)
	if !ok {
		return
	}

	categories, total, err := h.Categories.List(c.Request.Context(), services.CategoryFilter{
		Skip:     skip,
		Limit:    limit,
		ParentID: parentID,
		IsActive: isActive,
	})
	if err != nil {
		respondError(c, err, "fetch categories")
		return
	}

	c.JSON(http.StatusOK, dtos.NewListResponse(categories, total, skip, limit))
}

// GetCategoryTree returns the nested hierarchy below parent_id, or from the
// roots. Only active categories are included unless is_active says otherwise.
func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	parentID, ok := queryUUID(c, "parent_id")
	if !ok {
		return
	}
	isActive, ok := queryBool(c, "is_active", boolPtr(true))
	if !ok {
		return
	}

	nodes, err := h.Categories.Tree(c.Request.Context(), parentID, isActive)
	if err != nil {
		respondError(c, err, "fetch category tree")
		return
	}

	c.JSON(http.StatusOK, dtos.CategoryTreeResponse{Items: nodes})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.Categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "fetch category")
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.Categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "fetch category")
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := h.Categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.CategoryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	category, err := h.Categories.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "update category")
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses categories that still have subcategories. Products
// are not checked; a category that still has products is rejected by the
// products foreign key and surfaces as a server error.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Categories.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete category")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	c.Status(http.StatusNoContent)
}
