package handler

import (
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveriesHandler struct{ svc service.DeliveryService }

func NewDeliveriesHandler(svc service.DeliveryService) *DeliveriesHandler {
	return &DeliveriesHandler{svc: svc}
}

// CheckCode godoc
// @Summary Classify a scanned delivery code
// @Tags deliveries
// @Produce json
// @Param code path string true "Item code"
// @Success 200 {object} dto.CodeCheckResponse
// @Router /v1/delivery-codes/{code} [get]
func (h *DeliveriesHandler) CheckCode(c *gin.Context) {
	resp, err := h.svc.ValidateCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to validate code"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) Submit(c *gin.Context) {
	var req dto.SubmitDeliveryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Submit(c.Request.Context(), req, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DeliveriesHandler) List(c *gin.Context) {
	var filter dto.DeliveryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list deliveries"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DeliveriesHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
