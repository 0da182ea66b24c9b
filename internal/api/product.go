package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

const (
	productsDefaultLimit = 50
	productsMaxLimit     = 100
)

type ProductHandler struct {
	productService service.IProductService
	requireAuth    gin.HandlerFunc
	responder
}

func NewProductHandler(productService service.IProductService, common Common) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		requireAuth:    orPassThrough(common.RequireAuth),
		responder:      common.responder(),
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products")
	products.Use(h.requireAuth)
	{
		products.GET("", h.ListProducts)
		products.GET("/stats", h.GetStats)
		products.GET("/:id", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.POST("/bulk", h.CreateBulk)
		products.PUT("/:id", h.ReplaceProduct)
		products.PATCH("/:id/consume", h.ConsumeProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	var (
		filter types.ProductFilter
		err    error
	)
	if filter.Category, err = enumQuery(c, "category", models.ParseCategory); err != nil {
		h.fail(c, err)
		return
	}
	if filter.Location, err = enumQuery(c, "location", models.ParseLocation); err != nil {
		h.fail(c, err)
		return
	}
	if filter.ExpiringSoon, err = boolQuery(c, "expiring_soon"); err != nil {
		h.fail(c, err)
		return
	}
	if filter.Expired, err = boolQuery(c, "expired"); err != nil {
		h.fail(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), currentUserID(c), filter, pageRequest(c, productsDefaultLimit, productsMaxLimit))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) GetStats(c *gin.Context) {
	stats, err := h.productService.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.productService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req types.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// CreateBulk stores every product or none of them
func (h *ProductHandler) CreateBulk(c *gin.Context) {
	var req types.BulkProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	products, err := h.productService.CreateBulk(c.Request.Context(), currentUserID(c), req.Products)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"items": products, "count": len(products)})
}

func (h *ProductHandler) ReplaceProduct(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	var req types.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Replace(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ConsumeProduct(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.productService.Consume(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.productService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}
