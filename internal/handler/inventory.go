package handler

import (
	"net/http"
	"strconv"

	"minakistock/internal/apierror"
	"minakistock/internal/dto"
	"minakistock/internal/middleware"
	"minakistock/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler exposes the ledger and its read-side projections.
type InventoryHandler struct {
	ledger    service.LedgerService
	summaries service.SummaryService
}

func NewInventoryHandler(ledger service.LedgerService, summaries service.SummaryService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, summaries: summaries}
}

// actor resolves who performed a mutation: the explicit body field wins,
// falling back to the authenticated username.
func actor(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if claims := middleware.GetClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// GET /inventory/products/search
func (h *InventoryHandler) Search(c *gin.Context) {
	var filter dto.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	resp, err := h.ledger.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /inventory/products/find/:product_type/:product_id
func (h *InventoryHandler) Find(c *gin.Context) {
	resp, err := h.ledger.Find(c.Request.Context(), c.Param("product_type"), c.Param("product_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /inventory/products
func (h *InventoryHandler) AddToBox(c *gin.Context) {
	var req dto.AddToBoxRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.MovedBy = actor(c, req.MovedBy)
	resp, err := h.ledger.AddToBox(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// POST /inventory/products/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.MovedBy = actor(c, req.MovedBy)
	resp, err := h.ledger.Transfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /inventory/products/bulk-transfer
func (h *InventoryHandler) BulkTransfer(c *gin.Context) {
	var req dto.BulkTransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.MovedBy = actor(c, req.MovedBy)
	resp, err := h.ledger.BulkTransfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /inventory/products/:location_id/quantity
// The location_id path parameter is a legacy alias: it identifies the ledger
// entry, not a Location row.
func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	entryID, ok := parseIDParam(c, "location_id")
	if !ok {
		return
	}
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.UpdatedBy = actor(c, req.UpdatedBy)
	resp, err := h.ledger.UpdateQuantity(c.Request.Context(), entryID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /inventory/products/:location_id
func (h *InventoryHandler) Remove(c *gin.Context) {
	entryID, ok := parseIDParam(c, "location_id")
	if !ok {
		return
	}
	var req dto.RemoveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	req.RemovedBy = actor(c, req.RemovedBy)
	if err := h.ledger.Remove(c.Request.Context(), entryID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// GET /inventory/products/movements/:product_type/:product_id
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	resp, err := h.ledger.GetMovements(c.Request.Context(), c.Param("product_type"), c.Param("product_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return
	}
	resp, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /inventory/products/inventory/summary
func (h *InventoryHandler) GetInventorySummary(c *gin.Context) {
	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("location_id is not a valid uuid"))
			return
		}
		locationID = &id
	}
	resp, err := h.summaries.GetInventorySummary(c.Request.Context(), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
