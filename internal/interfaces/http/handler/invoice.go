package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	invoiceapp "github.com/purchase-invoice/backend/internal/application/invoice"
	"github.com/purchase-invoice/backend/internal/domain/identity"
	"github.com/purchase-invoice/backend/internal/domain/invoice"
	"github.com/purchase-invoice/backend/internal/interfaces/http/dto"
	"github.com/purchase-invoice/backend/internal/interfaces/http/middleware"
)

// InvoiceService runs the invoice lifecycle
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req invoiceapp.CreateInvoiceRequest, caller identity.Identity) (*invoiceapp.InvoiceResponse, error)
	CancelInvoice(ctx context.Context, id int64, caller identity.Identity) (*invoiceapp.InvoiceResponse, error)
	GetByID(ctx context.Context, id int64) (*invoiceapp.InvoiceResponse, error)
	ListByStatus(ctx context.Context, status invoice.Status) ([]invoiceapp.InvoiceResponse, error)
	ListOwnByStatus(ctx context.Context, status invoice.Status, caller identity.Identity) ([]invoiceapp.InvoiceResponse, error)
	List(ctx context.Context, filter invoiceapp.ListInvoicesFilter, caller identity.Identity) ([]invoiceapp.InvoiceResponse, error)
}

var _ InvoiceService = (*invoiceapp.Service)(nil)

// Cancelling someone else's invoice is a permission problem, not bad input
var cancelOverrides = map[string]int{
	invoice.CodeOwnershipViolation: http.StatusForbidden,
}

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// MineQuery narrows the caller's own listing
type MineQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=APPROVED REJECTED CANCELLED"`
}

// Create godoc
// @ID           createInvoice
// @Summary      Submit an invoice
// @Description  Submit an invoice for approval. It is approved while the caller's approved total stays within the limit and rejected otherwise; both outcomes are stored.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body invoiceapp.CreateInvoiceRequest true "Invoice submission"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} RejectedResponse[invoiceapp.InvoiceResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req invoiceapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if resp.Status == invoice.StatusRejected {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithData(
			dto.ErrCodeInvoiceRejected, invoice.MessageRejected, middleware.GetRequestID(c), resp))
		return
	}
	h.SuccessWithMessage(c, resp, invoiceapp.MessageAccepted)
}

// Cancel godoc
// @ID           cancelInvoice
// @Summary      Cancel a rejected invoice
// @Description  Withdraw one of the caller's own REJECTED invoices. Cancellation is final.
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/cancel [patch]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	id, err := parseInt64Param(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.CancelInvoice(c.Request.Context(), id, caller)
	if err != nil {
		h.HandleErrorWithOverrides(c, err, cancelOverrides)
		return
	}
	h.SuccessWithMessage(c, resp, invoice.MessageCancelled)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} APIResponse[invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := parseInt64Param(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Filter invoices by status and owner. Purchasing specialists only ever see their own invoices.
// @Tags         invoices
// @Produce      json
// @Param        status query string false "APPROVED, REJECTED or CANCELLED"
// @Param        email query string false "Owner email"
// @Param        firstName query string false "Owner first name"
// @Param        lastName query string false "Owner last name"
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var filter invoiceapp.ListInvoicesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), filter, caller)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ListApproved godoc
// @ID           listApprovedInvoices
// @Summary      List approved invoices
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/approved [get]
func (h *InvoiceHandler) ListApproved(c *gin.Context) {
	h.listByStatus(c, invoice.StatusApproved)
}

// ListRejected godoc
// @ID           listRejectedInvoices
// @Summary      List rejected invoices
// @Tags         invoices
// @Produce      json
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/rejected [get]
func (h *InvoiceHandler) ListRejected(c *gin.Context) {
	h.listByStatus(c, invoice.StatusRejected)
}

func (h *InvoiceHandler) listByStatus(c *gin.Context, status invoice.Status) {
	invoices, err := h.invoiceService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ListMine godoc
// @ID           listMyInvoices
// @Summary      List my invoices
// @Description  The caller's own invoices, optionally in one status
// @Tags         invoices
// @Produce      json
// @Param        status query string false "APPROVED, REJECTED or CANCELLED"
// @Success      200 {object} APIResponse[[]invoiceapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/mine [get]
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var q MineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	var (
		invoices []invoiceapp.InvoiceResponse
		err      error
	)
	if q.Status == "" {
		invoices, err = h.invoiceService.List(c.Request.Context(),
			invoiceapp.ListInvoicesFilter{Email: caller.Email}, caller)
	} else {
		invoices, err = h.invoiceService.ListOwnByStatus(c.Request.Context(), invoice.Status(q.Status), caller)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}
