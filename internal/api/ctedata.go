package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the structured error body the dashboard renders as a
// visible error state.
type ErrorResponse struct {
	Error    string `json:"error"`
	Detalhes string `json:"detalhes,omitempty"`
}

// GetData recomputes the aggregates from the active source and serves them.
// GET /api/cte-data
func (h *Handler) GetData(c *gin.Context) {
	data, err := h.loader.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    "Não foi possível carregar os dados de CT-e.",
			Detalhes: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}
