package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/facility-ledger/constants"
)

// NewRouter wires the HTTP surface. A non-empty uploadsDir is served under the
// public uploads prefix.
func NewRouter(h *Handler, uploadsDir string, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(RequestID(logger), AccessLog(logger), gin.Recovery())

	if uploadsDir != "" {
		r.Static(constants.UploadsURLPrefix, uploadsDir)
	}

	api := r.Group("/api")
	api.GET("/health", h.Health)

	rows := api.Group("/rows")
	rows.GET("", h.ListRows)
	rows.POST("", h.CreateRow)
	rows.PUT("/:id", h.UpdateRow)
	rows.DELETE("/:id", h.DeleteRow)
	rows.POST("/:id/ocr", h.RerunOCR)
	rows.GET("/:id/prices", h.ListPrices)
	rows.POST("/:id/prices", h.AddPrice)
	rows.DELETE("/:id/prices/:index", h.DeletePrice)

	api.POST("/upload/:id", h.Upload)
	api.POST("/ocr/rerun", h.RerunAll)
	api.GET("/chart-data", h.ChartData)
	api.GET("/audit", h.Audit)
	api.GET("/report", h.Report)
	api.POST("/report", h.Report)
	api.GET("/export", h.Export)

	return r
}
