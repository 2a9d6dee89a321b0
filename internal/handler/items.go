package handler

import (
	"net/http"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/repository"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemsHandler struct {
	catalog service.CatalogService
	ledger  service.LedgerService
}

func NewItemsHandler(catalog service.CatalogService, ledger service.LedgerService) *ItemsHandler {
	return &ItemsHandler{catalog: catalog, ledger: ledger}
}

// Create godoc
// @Summary Create a catalog item
// @Tags items
// @Accept json
// @Produce json
// @Param body body dto.CreateItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalog.Create(c.Request.Context(), req, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemsHandler) List(c *gin.Context) {
	var filter dto.ItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) GetByCode(c *gin.Context) {
	resp, err := h.catalog.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalog.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustQuantity applies a signed delta through the ledger.
func (h *ItemsHandler) AdjustQuantity(c *gin.Context) {
	code := c.Param("code")
	var req dto.AdjustQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.AdjustQuantity(c.Request.Context(), code, req.Delta, actorFromClaims(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetQuantity overwrites the quantity; the ledger records the implied delta.
func (h *ItemsHandler) SetQuantity(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.SetQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.SetQuantity(c.Request.Context(), id, req.Quantity, actorFromClaims(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Deactivate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItemsHandler) Reactivate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Reactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItemsHandler) Alerts(c *gin.Context) {
	resp, err := h.catalog.ListAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Operations lists the ledger, optionally filtered by item, direction and window.
func (h *ItemsHandler) Operations(c *gin.Context) {
	var filter repository.OperationFilter
	if raw := c.Query("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid item_id"))
			return
		}
		filter.ItemID = &id
	}
	filter.Direction = c.Query("direction")
	if raw := c.Query("from"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &d
		}
	}
	if raw := c.Query("to"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			end := d.AddDate(0, 0, 1)
			filter.To = &end
		}
	}
	filter.Page = queryInt(c, "page")
	filter.Limit = queryInt(c, "limit")

	resp, err := h.ledger.ListOperations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list operations"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
