package handlers

import (
	"github.com/gin-gonic/gin"

	"bizerp/internal/domain/bins"
	"bizerp/internal/infrastructure/http/v1/dto"
)

// BinHandler serves bin locations and their stock views.
type BinHandler struct {
	*CatalogHandler[*bins.BinLocation]
	stock *bins.Service
}

// NewBinHandler creates a bin handler.
func NewBinHandler(base *BaseHandler, locations *bins.LocationService, stock *bins.Service) *BinHandler {
	return &BinHandler{
		CatalogHandler: NewCatalogHandler(base, locations, CatalogConfig{
			Name:    "bin location",
			Filters: map[string]string{"warehouse": "warehouse"},
		}),
		stock: stock,
	}
}

// StockAll handles GET /bin-locations/stock/all.
func (h *BinHandler) StockAll(c *gin.Context) {
	result, err := h.stock.GetBinLocationsWithStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if result == nil {
		result = []bins.BinWithItems{}
	}
	h.OK(c, result)
}

// ForItem handles GET /bin-locations/item/:itemId.
func (h *BinHandler) ForItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}
	result, err := h.stock.GetBinLocationsForItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if result == nil {
		result = []bins.BinStock{}
	}
	h.OK(c, result)
}

// AllocatePurchase handles POST /bin-locations/allocations/purchase.
func (h *BinHandler) AllocatePurchase(c *gin.Context) {
	var req dto.PurchaseAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.stock.AllocatePurchase(c.Request.Context(), bins.PurchaseAllocation{
		BinLocationID: req.BinLocationID,
		BillItemID:    req.BillItemID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, row)
}

// AllocateSale handles POST /bin-locations/allocations/sale.
func (h *BinHandler) AllocateSale(c *gin.Context) {
	var req dto.SaleAllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	row, err := h.stock.AllocateSale(c.Request.Context(), bins.SaleAllocation{
		BinLocationID: req.BinLocationID,
		InvoiceItemID: req.InvoiceItemID,
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, row)
}

// RegisterRoutes mounts bin routes. Static segments are registered before
// the catalog's :id routes.
func (h *BinHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/stock/all", h.StockAll)
	group.GET("/item/:itemId", h.ForItem)
	group.POST("/allocations/purchase", h.AllocatePurchase)
	group.POST("/allocations/sale", h.AllocateSale)
	h.CatalogHandler.RegisterRoutes(group)
}
