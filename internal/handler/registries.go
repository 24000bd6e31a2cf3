package handler

import (
	"net/http"

	"minakistock/internal/dto"
	"minakistock/internal/service"

	"github.com/gin-gonic/gin"
)

// RegistryHandler exposes the storage hierarchy registries: locations,
// storage types, and storage objects.
type RegistryHandler struct {
	locations service.LocationService
	storage   service.StorageService
}

func NewRegistryHandler(locations service.LocationService, storage service.StorageService) *RegistryHandler {
	return &RegistryHandler{locations: locations, storage: storage}
}

func activeOnly(c *gin.Context) bool {
	// Registry listings default to active rows; pass active_only=false for all.
	return c.DefaultQuery("active_only", "true") != "false"
}

// ── Locations ────────────────────────────────────────────────────────────────

func (h *RegistryHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.locations.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RegistryHandler) ListLocations(c *gin.Context) {
	resp, err := h.locations.List(c.Request.Context(), activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.locations.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) DeactivateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.locations.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// ── Storage types ────────────────────────────────────────────────────────────

func (h *RegistryHandler) CreateStorageType(c *gin.Context) {
	var req dto.CreateStorageTypeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.storage.CreateType(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /inventory/storage-types/location/:id
func (h *RegistryHandler) ListStorageTypes(c *gin.Context) {
	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.storage.ListTypes(c.Request.Context(), locationID, activeOnly(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateStorageType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStorageTypeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.storage.UpdateType(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) DeactivateStorageType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.storage.DeactivateType(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// ── Storage objects ──────────────────────────────────────────────────────────

func (h *RegistryHandler) CreateStorageObject(c *gin.Context) {
	var req dto.CreateStorageObjectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.storage.CreateObject(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /inventory/storage-objects/storage-type/:id
func (h *RegistryHandler) ListStorageObjects(c *gin.Context) {
	storageTypeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.storage.ListObjects(c.Request.Context(), storageTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) UpdateStorageObject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStorageObjectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.storage.UpdateObject(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RegistryHandler) DeleteStorageObject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.storage.DeleteObject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
