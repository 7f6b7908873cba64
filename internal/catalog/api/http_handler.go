package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rawthreads/storefront/internal/catalog/domain"
	"github.com/rawthreads/storefront/internal/catalog/repository"
	"github.com/rawthreads/storefront/internal/catalog/service"
	"github.com/rawthreads/storefront/internal/platform/logger"
	"github.com/rawthreads/storefront/internal/upload"
)

// ImageSaver stores an uploaded image and returns its public path.
type ImageSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

type CatalogHandler struct {
	catalogService service.CatalogService
	images         ImageSaver
}

func NewCatalogHandler(cs service.CatalogService, images ImageSaver) *CatalogHandler {
	return &CatalogHandler{catalogService: cs, images: images}
}

// RegisterRoutes mounts the public catalog routes and, behind requireAdmin,
// the mutating and stats routes.
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.POST("", requireAdmin, h.CreateProduct)
		productRoutes.PUT("/:id", requireAdmin, h.UpdateProduct)
		productRoutes.DELETE("/:id", requireAdmin, h.DeleteProduct)
	}
	router.GET("/categories", h.ListCategories)
	router.GET("/admin/stats", requireAdmin, h.GetStats)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := repository.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Featured: c.Query("featured") == "true",
		NewStock: c.Query("newStock") == "true",
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a number"})
		return
	}
	// Missing or malformed stock defaults to zero rather than failing the
	// whole create.
	stock, _ := strconv.Atoi(c.PostForm("stock"))

	draft := domain.ProductDraft{
		Name:        c.PostForm("name"),
		Price:       price,
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Image:       c.PostForm("image"),
		Stock:       stock,
		Featured:    c.PostForm("featured") == "true",
		NewStock:    c.PostForm("new_stock") == "true",
	}

	if path, ok := h.saveUploadedImage(c); ok {
		draft.Image = path
	} else if c.IsAborted() {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidProduct) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("CreateProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var update domain.ProductUpdate
	if v, ok := c.GetPostForm("name"); ok {
		update.Name = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a number"})
			return
		}
		update.Price = &price
	}
	if v, ok := c.GetPostForm("category"); ok {
		update.Category = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		update.Description = &v
	}
	if v, ok := c.GetPostForm("image"); ok {
		update.Image = &v
	}
	if v, ok := c.GetPostForm("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must be a number"})
			return
		}
		update.Stock = &stock
	}
	if v, ok := c.GetPostForm("featured"); ok {
		featured := v == "true"
		update.Featured = &featured
	}
	if v, ok := c.GetPostForm("new_stock"); ok {
		newStock := v == "true"
		update.NewStock = &newStock
	}

	if path, ok := h.saveUploadedImage(c); ok {
		update.Image = &path
	} else if c.IsAborted() {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, repository.ErrInvalidProduct):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateProduct: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("DeleteProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		logger.Error("ListCategories: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) GetStats(c *gin.Context) {
	stats, err := h.catalogService.ComputeStats(c.Request.Context())
	if err != nil {
		logger.Error("GetStats: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// saveUploadedImage stores the optional "image" form file. It returns
// (path, true) on success, (_, false) when no file was sent, and aborts the
// request itself on validation or storage failure.
func (h *CatalogHandler) saveUploadedImage(c *gin.Context) (string, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", false
	}
	path, err := h.images.Save(fh)
	if err != nil {
		if errors.Is(err, upload.ErrNotAnImage) || errors.Is(err, upload.ErrTooLarge) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("saveUploadedImage: storage error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		}
		return "", false
	}
	return path, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
