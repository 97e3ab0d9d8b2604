package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// MetadataResponse describes the active source file's filesystem
// timestamps. CriadoEm is null on platforms where a birth time is not
// portably available.
type MetadataResponse struct {
	Arquivo      string  `json:"arquivo"`
	CriadoEm     *string `json:"criadoEm"`
	AtualizadoEm *string `json:"atualizadoEm"`
}

// GetMetadata reports which source file backs the dashboard and when it
// last changed.
// GET /api/cte-data-metadata
func (h *Handler) GetMetadata(c *gin.Context) {
	source, err := h.loader.Resolve()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	info, err := os.Stat(source.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Não foi possível obter metadados do arquivo " + source.FileName + ".",
		})
		return
	}

	updated := info.ModTime().UTC().Format(time.RFC3339)

	c.JSON(http.StatusOK, MetadataResponse{
		Arquivo:      source.FileName,
		CriadoEm:     nil,
		AtualizadoEm: &updated,
	})
}
