package handler

import (
	"context"
	"net/http"
	"time"

	"invoice-link-backend/internal/config"
	"invoice-link-backend/internal/logger"
	"invoice-link-backend/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	// RootMessage is the liveness message served at "/".
	RootMessage = "Invoice Link Sharing Backend Running"

	diagnosticsTimeout = 5 * time.Second
	maxErrorLen        = 80
)

// Diagnostics is the body of GET /test.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type SystemHandler struct {
	cfg    *config.Configuration
	store  *store.Store
	logger *logger.Logger
}

func NewSystemHandler(cfg *config.Configuration, s *store.Store, logger *logger.Logger) *SystemHandler {
	return &SystemHandler{cfg: cfg, store: s, logger: logger}
}

// Root handles GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": RootMessage})
}

// Diagnostics handles GET /test. Store problems are reported in the body,
// the status is always 200.
func (h *SystemHandler) Diagnostics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), diagnosticsTimeout)
	defer cancel()

	c.JSON(http.StatusOK, h.diagnose(ctx))
}

func (h *SystemHandler) diagnose(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      setOrNot(h.cfg.Database.URL),
		DatabaseName:     setOrNot(h.cfg.Database.Name),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if !h.store.Available() {
		return d
	}

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warnw("diagnostics ping failed", "error", err)
		d.Database = "❌ Error: " + truncate(err.Error(), maxErrorLen)
		return d
	}

	d.Database = "✅ Connected"
	d.ConnectionStatus = "Connected"

	names, err := h.store.CollectionNames(ctx)
	if err != nil {
		h.logger.Warnw("diagnostics could not list collections", "error", err)
		return d
	}
	if names != nil {
		d.Collections = names
	}
	return d
}

func setOrNot(v string) string {
	if v != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
