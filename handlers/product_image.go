package handlers

import (
	"net/http"
	"strconv"

	"blackmarket-backend/models"
	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const errImageNotFound = "Product image not found"

func (h *ProductHandler) GetProductImages(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.Products.Get(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "fetch product images")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	images, err := h.Images.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "fetch product images")
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *ProductHandler) CreateProductImage(c *gin.Context) {
	var input models.ProductImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	image, err := h.Images.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "create product image")
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *ProductHandler) UpdateProductImage(c *gin.Context) {
	id, ok := parseID(c, "image_id")
	if !ok {
		return
	}

	var patch models.ProductImagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}
	if err := patch.Validate(); err != nil {
		respondInvalid(c, err.Error())
		return
	}

	image, err := h.Images.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "update product image")
		return
	}
	if image == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errImageNotFound})
		return
	}

	c.JSON(http.StatusOK, image)
}

// DeleteProductImage removes the image, promoting another one when it was
// the primary, and then deletes the stored file.
func (h *ProductHandler) DeleteProductImage(c *gin.Context) {
	id, ok := parseID(c, "image_id")
	if !ok {
		return
	}

	image, deleted, err := h.Images.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete product image")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": errImageNotFound})
		return
	}

	h.deleteStoredImage(c.Request.Context(), image.ImageURL)
	c.Status(http.StatusNoContent)
}

// UploadProductImage stores a multipart "image" file and records it as an
// image of the product. Optional form fields: alt_text, is_primary and
// display_order.
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	productID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}

	product, err := h.Products.Get(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "upload product image")
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errProductNotFound})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondInvalid(c, "image file is required")
		return
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := models.ProductImageInput{ProductID: productID}
	if alt := c.PostForm("alt_text"); alt != "" {
		input.AltText = &alt
	}
	if raw := c.PostForm("display_order"); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil {
			respondInvalid(c, "display_order must be an integer")
			return
		}
		input.DisplayOrder = order
	}
	if raw := c.PostForm("is_primary"); raw != "" {
		primary, err := strconv.ParseBool(raw)
		if err != nil {
			respondInvalid(c, "is_primary must be a boolean")
			return
		}
		input.IsPrimary = &primary
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image"})
		return
	}
	defer file.Close()

	imageURL, err := h.Storage.UploadProductImage(
		c.Request.Context(),
		productID,
		file,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID.String()).Msg("image upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
		return
	}
	input.ImageURL = imageURL

	image, err := h.Images.Create(c.Request.Context(), input)
	if err != nil {
		h.deleteStoredImage(c.Request.Context(), imageURL)
		respondError(c, err, "save product image")
		return
	}

	c.JSON(http.StatusCreated, image)
}
