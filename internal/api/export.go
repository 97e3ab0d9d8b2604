package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nathanbarretosilveira-dev/dash/internal/cte"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportData serves the current aggregates as a downloadable xlsx workbook.
// GET /api/cte-data-export
func (h *Handler) ExportData(c *gin.Context) {
	data, err := h.loader.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    "Não foi possível carregar os dados de CT-e.",
			Detalhes: err.Error(),
		})
		return
	}

	workbook, err := cte.BuildWorkbook(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    "Não foi possível gerar a planilha de exportação.",
			Detalhes: err.Error(),
		})
		return
	}
	defer workbook.Close()

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:    "Não foi possível gerar a planilha de exportação.",
			Detalhes: err.Error(),
		})
		return
	}

	filename := "cte_dashboard_" + uuid.New().String() + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
