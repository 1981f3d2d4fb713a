package routes

import (
	"invoice-link-backend/internal/config"
	handler "invoice-link-backend/internal/handlers"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Invoice *handler.InvoiceHandler
	System  *handler.SystemHandler
}

func NewHandlers(invoice *handler.InvoiceHandler, system *handler.SystemHandler) Handlers {
	return Handlers{Invoice: invoice, System: system}
}

// NewRouter builds the engine with its middleware chain and registers all
// routes on it.
func NewRouter(h Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(log),
		middleware.CORS(cfg.Server),
		middleware.ErrorHandler(),
	)

	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/", h.System.Root)
	r.GET("/test", h.System.Diagnostics)

	api := r.Group("/api")
	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.Invoice.CreateInvoice)
		invoices.GET("", h.Invoice.ListInvoices)
		invoices.GET("/:invoice_id", h.Invoice.GetInvoice)
	}

	public := r.Group("/public")
	public.GET("/invoices/:invoice_id", h.Invoice.GetPublicInvoice)
}
