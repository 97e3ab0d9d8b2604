package cte

import (
	"testing"
	"time"
)

func TestBuildWorkbook(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "09:15:00", Author: "Ana"},
		{Date: "15/01/24", Hour: "15:00:00", Author: "Ana", Reversed: true},
		{Date: "16/01/24", Hour: "10:00:00", Author: "Bia"},
	}
	data := Aggregate(records, time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC))

	f, err := BuildWorkbook(data)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Resumo", "Por Usuário", "Por Dia", "Turnos", "Timeline"} {
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Fatalf("missing sheet %q (idx=%d err=%v)", sheet, idx, err)
		}
	}

	total, err := f.GetCellValue("Resumo", "B2")
	if err != nil {
		t.Fatalf("read total: %v", err)
	}
	if total != "3" {
		t.Fatalf("want total 3, got %q", total)
	}

	topUser, err := f.GetCellValue("Por Usuário", "A2")
	if err != nil {
		t.Fatalf("read top user: %v", err)
	}
	if topUser != "Ana" {
		t.Fatalf("want Ana first, got %q", topUser)
	}
}
