package handler

import (
	"encoding/json"
	"net/http"

	ierr "invoice-link-backend/internal/errors"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/models"
	"invoice-link-backend/internal/repository"
	"invoice-link-backend/internal/services/invoicing"
	"invoice-link-backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	service *invoicing.InvoiceService
	logger  *logger.Logger
}

func NewInvoiceHandler(s *invoicing.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{service: s, logger: logger}
}

// CreateInvoice handles POST /api/invoices
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	resp, err := h.service.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListInvoices handles GET /api/invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	var query models.ListInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			WithReportableDetails(map[string]any{"limit": "value is not a valid integer"}).
			Mark(ierr.ErrValidation))
		return
	}
	if err := validator.ValidateRequest(&query); err != nil {
		c.Error(err)
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), repository.InvoiceFilter{
		Status: query.Status,
		Limit:  query.Limit,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice handles GET /api/invoices/:invoice_id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	inv, err := h.service.GetInvoice(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// GetPublicInvoice handles GET /public/invoices/:invoice_id
func (h *InvoiceHandler) GetPublicInvoice(c *gin.Context) {
	inv, err := h.service.GetPublicInvoice(c.Request.Context(), c.Param("invoice_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// bindError turns a JSON decoding failure into a validation error. Type
// mismatches are reported against the offending field.
func bindError(err error) error {
	details := map[string]any{"body": "request body is not valid JSON"}

	var typeErr *json.UnmarshalTypeError
	if ierr.As(err, &typeErr) && typeErr.Field != "" {
		details = map[string]any{typeErr.Field: "value is not a valid " + typeErr.Type.String()}
	}

	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
