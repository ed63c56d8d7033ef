package handlers

import (
	"context"
	"net/http"
	"strings"

	"blackmarket-backend/dtos"
	"blackmarket-backend/firebase"
	"blackmarket-backend/models"
	"blackmarket-backend/services"
	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const errProductNotFound = "Product not found"

// ProductHandler serves products and their images. Storage may be nil, in
// which case uploads are refused and stored files are never cleaned up.
type ProductHandler struct {
	Products *services.ProductService
	Images   *services.ProductImageService
	Storage  firebase.StorageClient
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	skip, limit, ok := parsePage(c, 10, 100)
	if !ok {
		return
	}
	categoryID, ok := queryUUID(c, "category_id")
	if !ok {
		return
	}
	priceMin, ok := queryAmount(c, "price_min")
	if !ok {
		return
	}
	priceMax, ok := queryAmount(c, "price_max")
	if !ok {
		return
	}
	isActive, ok := queryBool(c, "is_active", boolPtr(true))
	if !ok {
		return
	}

	products, total, err := h.Products.List(c.Request.Context(), services.ProductFilter{
		Skip:       skip,
		Limit:      limit,
		CategoryID: categoryID,
		Search:     strings.TrimSpace(c.Query("search")),
		PriceMin:   priceMin,
		PriceMax:   priceMax,
		IsActive:   isActive,
	})
	if err != nil {
		respondError(c, err, "fetch products")
		return
	}

	c.JSON(http.StatusOK, dtos.NewListResponse(products, total, skip, limit))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "fetch product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "fetch product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	if err := input.Validate(); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	product, err := h.Products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	product, err := h.Products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "update product")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes the product with its images, then deletes the stored
// image files. A file that cannot be deleted is logged and left behind.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	images, deleted, err := h.Products.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete product")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	for _, image := range images {
		h.deleteStoredImage(c.Request.Context(), image.ImageURL)
	}

	c.Status(http.StatusNoContent)
}

// deleteStoredImage removes the file behind imageURL when it lives in our
// bucket and no remaining image row references it. URLs pointing elsewhere
// are ignored.
func (h *ProductHandler) deleteStoredImage(ctx context.Context, imageURL string) {
	if h.Storage == nil {
		return
	}
	objectPath, err := utils.ExtractObjectPath(h.Storage.Bucket(), imageURL)
	if err != nil {
		return
	}

	inUse, err := h.Images.URLInUse(ctx, imageURL)
	if err != nil {
		log.Warn().Err(err).Str("object", objectPath).Msg("failed to check stored image references")
		return
	}
	if inUse {
		log.Debug().Str("object", objectPath).Msg("stored image still referenced")
		return
	}

	if err := h.Storage.DeleteFile(ctx, objectPath); err != nil {
		log.Warn().Err(err).Str("object", objectPath).Msg("failed to delete stored image")
		return
	}
	log.Debug().Str("object", objectPath).Msg("deleted stored image")
}
