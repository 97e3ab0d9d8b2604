package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nathanbarretosilveira-dev/dash/internal/cte"
)

// Handler serves the CT-e dashboard API.
type Handler struct {
	loader *cte.Loader
}

// NewHandler creates the API handler around a data loader.
func NewHandler(loader *cte.Loader) *Handler {
	return &Handler{loader: loader}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cte-data", h.GetData)
	router.GET("/cte-data-metadata", h.GetMetadata)
	router.GET("/cte-data-export", h.ExportData)
}
