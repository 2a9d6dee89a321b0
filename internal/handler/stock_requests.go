package handler

import (
	"net/http"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

type StockRequestsHandler struct{ svc service.StockRequestService }

func NewStockRequestsHandler(svc service.StockRequestService) *StockRequestsHandler {
	return &StockRequestsHandler{svc: svc}
}

// ownsRequest reports whether the caller may touch a request belonging to
// shopID. Staff always may; shop users only for their own shop.
func ownsRequest(c *gin.Context, shopID string) bool {
	claims := middleware.GetClaims(c)
	if claims.Role != model.RoleShop {
		return true
	}
	return claims.ShopID != nil && *claims.ShopID == shopID
}

// Submit godoc
// @Summary Submit a stock request
// @Tags stock-requests
// @Accept json
// @Produce json
// @Param body body dto.SubmitStockRequest true "Request"
// @Success 201 {object} dto.StockRequestResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/stock-requests [post]
func (h *StockRequestsHandler) Submit(c *gin.Context) {
	var req dto.SubmitStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Shop users may only request for their own shop
	claims := middleware.GetClaims(c)
	if claims.Role == model.RoleShop {
		if claims.ShopID == nil || *claims.ShopID != req.ShopID {
			c.JSON(http.StatusForbidden, apierror.New("Cannot request stock for another shop"))
			return
		}
	}

	resp, err := h.svc.Submit(c.Request.Context(), req, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StockRequestsHandler) List(c *gin.Context) {
	var filter dto.StockRequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return
	}

	// Shop users only see their own shop's requests
	claims := middleware.GetClaims(c)
	if claims.Role == model.RoleShop && claims.ShopID != nil {
		filter.ShopID = *claims.ShopID
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock requests"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockRequestsHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !ownsRequest(c, resp.ShopID) {
		c.JSON(http.StatusForbidden, apierror.New("Cannot access another shop's request"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockRequestsHandler) StartProcessing(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.StartProcessing(c.Request.Context(), id, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockRequestsHandler) ReturnForRevision(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ReturnForRevisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReturnForRevision(c.Request.Context(), id, req.Notes, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockRequestsHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Approve(c.Request.Context(), id, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StockRequestsHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	// Ownership is checked before the transition so a foreign request is
	// never cancelled and then reported forbidden.
	current, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !ownsRequest(c, current.ShopID) {
		c.JSON(http.StatusForbidden, apierror.New("Cannot cancel another shop's request"))
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), id, actorFromClaims(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
