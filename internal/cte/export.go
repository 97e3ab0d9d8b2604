package cte

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook renders the aggregates as an xlsx workbook, one sheet per
// view, for users who want the dashboard numbers back in spreadsheet form.
func BuildWorkbook(data *Aggregates) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Resumo"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Total de emissões", data.Resumo.TotalEmissoes},
		{"Total de cancelamentos", data.Resumo.TotalCancelamentos},
		{"Taxa de eficiência (%)", data.Resumo.TaxaEficiencia},
		{"Produtividade média", data.Resumo.ProdutividadeMedia},
		{"Atualizado em", data.CriadoEm},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return nil, err
	}

	userRows := [][]interface{}{{"Usuário", "Emissões", "Cancelamentos"}}
	for _, u := range data.EmissoesPorUsuario {
		userRows = append(userRows, []interface{}{u.Nome, u.Emissoes, u.Cancelamentos})
	}
	if err := addSheet(f, "Por Usuário", userRows); err != nil {
		return nil, err
	}

	dayRows := [][]interface{}{{"Data", "Emissões", "Cancelamentos"}}
	for _, d := range data.DadosPorDia {
		dayRows = append(dayRows, []interface{}{d.Data, d.Emissoes, d.Cancelamentos})
	}
	if err := addSheet(f, "Por Dia", dayRows); err != nil {
		return nil, err
	}

	shiftRows := [][]interface{}{
		{"Data", "Antes das 14h", "Depois das 14h"},
		{"Total", data.EmissoesPorTurno.Antes14h, data.EmissoesPorTurno.Depois14h},
	}
	for _, d := range data.EmissoesPorTurnoPorDia {
		shiftRows = append(shiftRows, []interface{}{d.Data, d.Antes14h, d.Depois14h})
	}
	if err := addSheet(f, "Turnos", shiftRows); err != nil {
		return nil, err
	}

	timelineRows := [][]interface{}{{"Hora", "Emissões"}}
	for _, p := range data.TimelineOperacao {
		timelineRows = append(timelineRows, []interface{}{p.Hora, p.Emissoes})
	}
	if err := addSheet(f, "Timeline", timelineRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
