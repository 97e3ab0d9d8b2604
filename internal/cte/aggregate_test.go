package cte

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

var aggregateStamp = time.Date(2024, 1, 20, 18, 30, 0, 0, time.UTC)

func TestAggregate_EndToEndScenario(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "09:15:00", Author: "Ana", Reversed: false},
		{Date: "15/01/24", Hour: "15:00:00", Author: "Ana", Reversed: true},
	}

	got := Aggregate(records, aggregateStamp)

	if got.Resumo.TotalEmissoes != 2 || got.Resumo.TotalCancelamentos != 1 {
		t.Fatalf("unexpected resumo: %+v", got.Resumo)
	}
	if got.Resumo.TaxaEficiencia != 50.0 {
		t.Fatalf("want taxa 50.0, got %v", got.Resumo.TaxaEficiencia)
	}

	if len(got.EmissoesPorUsuario) != 1 {
		t.Fatalf("want 1 user, got %d", len(got.EmissoesPorUsuario))
	}
	u := got.EmissoesPorUsuario[0]
	if u.Nome != "Ana" || u.Emissoes != 1 || u.Cancelamentos != 1 {
		t.Fatalf("unexpected user totals: %+v", u)
	}

	if got.EmissoesPorTurno.Antes14h != 1 || got.EmissoesPorTurno.Depois14h != 0 {
		t.Fatalf("reversed records must not count in shifts: %+v", got.EmissoesPorTurno)
	}

	if len(got.TimelineOperacao) != 1 {
		t.Fatalf("want 1 timeline point, got %d", len(got.TimelineOperacao))
	}
	if p := got.TimelineOperacao[0]; p.Hora != "09:00" || p.Emissoes != 1 {
		t.Fatalf("unexpected timeline point: %+v", p)
	}

	if got.CriadoEm != "20/01/2024 18:30:00" {
		t.Fatalf("unexpected criado_em: %q", got.CriadoEm)
	}
}

func TestAggregate_CountInvariants(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "08:00:00", Author: "Ana"},
		{Date: "15/01/24", Hour: "14:00:00", Author: "Ana"},
		{Date: "15/01/24", Hour: NoTime, Author: "Bia"},
		{Date: "16/01/24", Hour: "10:30:00", Author: "Bia", Reversed: true},
		{Date: "16/01/24", Hour: "22:01:02", Author: "Caio"},
		{Date: NoDate, Hour: NoTime, Author: "Caio", Reversed: true},
	}

	got := Aggregate(records, aggregateStamp)

	sumUser := 0
	for _, u := range got.EmissoesPorUsuario {
		sumUser += u.Emissoes + u.Cancelamentos
	}
	if sumUser != got.Resumo.TotalEmissoes {
		t.Fatalf("per-user sums must equal total: %d != %d", sumUser, got.Resumo.TotalEmissoes)
	}

	net := got.Resumo.TotalEmissoes - got.Resumo.TotalCancelamentos
	shiftSum := got.EmissoesPorTurno.Antes14h + got.EmissoesPorTurno.Depois14h
	if shiftSum > net {
		t.Fatalf("shift sum %d exceeds net issuances %d", shiftSum, net)
	}

	timelineSum := 0
	for _, p := range got.TimelineOperacao {
		timelineSum += p.Emissoes
	}
	if timelineSum != shiftSum {
		t.Fatalf("timeline sum %d must match shift sum %d", timelineSum, shiftSum)
	}

	// One no-time and one reversed record are excluded from buckets.
	if shiftSum != 3 {
		t.Fatalf("want 3 bucketed records, got %d", shiftSum)
	}
	if got.EmissoesPorTurno.Antes14h != 2 || got.EmissoesPorTurno.Depois14h != 1 {
		t.Fatalf("14:00 belongs to the afternoon shift: %+v", got.EmissoesPorTurno)
	}
}

func TestAggregate_DayOrderingAndNesting(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "02/01/24", Hour: "10:00:00", Author: "Ana"},
		{Date: "28/12/23", Hour: "09:00:00", Author: "Bia"},
		{Date: NoDate, Hour: NoTime, Author: "Caio"},
		{Date: "02/01/24", Hour: "15:00:00", Author: "Bia"},
		{Date: "02/01/24", Hour: "16:00:00", Author: "Bia"},
	}

	got := Aggregate(records, aggregateStamp)

	if len(got.DadosPorDia) != 3 {
		t.Fatalf("want 3 day entries, got %d", len(got.DadosPorDia))
	}
	// Sentinel dates sort before real ones; years expand as 2000+YY.
	if got.DadosPorDia[0].Data != NoDate || got.DadosPorDia[1].Data != "28/12/23" || got.DadosPorDia[2].Data != "02/01/24" {
		t.Fatalf("unexpected day order: %+v", got.DadosPorDia)
	}

	if len(got.EmissoesPorUsuarioPorDia) != 3 {
		t.Fatalf("want 3 nested day entries, got %d", len(got.EmissoesPorUsuarioPorDia))
	}
	last := got.EmissoesPorUsuarioPorDia[2]
	if last.Data != "02/01/24" || len(last.Usuarios) != 2 {
		t.Fatalf("unexpected nested day: %+v", last)
	}
	// Bia has 2 issuances on 02/01, Ana 1.
	if last.Usuarios[0].Nome != "Bia" || last.Usuarios[1].Nome != "Ana" {
		t.Fatalf("per-day users must sort by issuances: %+v", last.Usuarios)
	}

	if len(got.EmissoesPorTurnoPorDia) != 3 {
		t.Fatalf("want 3 day-shift entries, got %d", len(got.EmissoesPorTurnoPorDia))
	}
	if d := got.EmissoesPorTurnoPorDia[2]; d.Antes14h != 1 || d.Depois14h != 2 {
		t.Fatalf("unexpected day shift: %+v", d)
	}
}

func TestAggregate_TieBreakKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "08:00:00", Author: "Zeca"},
		{Date: "15/01/24", Hour: "09:00:00", Author: "Ana"},
		{Date: "15/01/24", Hour: "10:00:00", Author: "Caio"},
	}

	got := Aggregate(records, aggregateStamp)

	names := []string{}
	for _, u := range got.EmissoesPorUsuario {
		names = append(names, u.Nome)
	}
	want := []string{"Zeca", "Ana", "Caio"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tie-break must keep first-seen order: want %v, got %v", want, names)
		}
	}
}

func TestAggregate_SummaryRounding(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "08:00:00", Author: "Ana"},
		{Date: "15/01/24", Hour: "09:00:00", Author: "Ana"},
		{Date: "15/01/24", Hour: "10:00:00", Author: "Bia", Reversed: true},
	}

	got := Aggregate(records, aggregateStamp)

	// 2/3 -> 66.666... -> 66.67
	if got.Resumo.TaxaEficiencia != 66.67 {
		t.Fatalf("want taxa 66.67, got %v", got.Resumo.TaxaEficiencia)
	}
	// 3 records over 2 users -> 1.5 -> rounds away from zero to 2.
	if got.Resumo.ProdutividadeMedia != 2 {
		t.Fatalf("want produtividade 2, got %d", got.Resumo.ProdutividadeMedia)
	}
}

func TestAggregate_EmptyRecords(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil, aggregateStamp)

	if got.Resumo.TotalEmissoes != 0 || got.Resumo.TaxaEficiencia != 0 || got.Resumo.ProdutividadeMedia != 0 {
		t.Fatalf("unexpected empty resumo: %+v", got.Resumo)
	}

	// Empty views must serialize as [] rather than null.
	body, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if bytes.Contains(body, []byte("null")) {
		t.Fatalf("empty aggregates must not contain null: %s", body)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	records := []IssuanceRecord{
		{Date: "15/01/24", Hour: "08:00:00", Author: "Ana"},
		{Date: "16/01/24", Hour: "15:00:00", Author: "Bia", Reversed: true},
		{Date: "15/01/24", Hour: "23:00:00", Author: "Caio"},
	}

	first, err := json.Marshal(Aggregate(records, aggregateStamp))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Aggregate(records, aggregateStamp))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("aggregation must be deterministic:\n%s\n%s", first, second)
	}
}
