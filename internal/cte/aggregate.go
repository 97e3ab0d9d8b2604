package cte

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Summary holds the headline KPIs of the dashboard.
type Summary struct {
	TotalEmissoes      int     `json:"total_emissoes"`      // all records, reversed included
	TotalCancelamentos int     `json:"total_cancelamentos"` // reversed records
	TaxaEficiencia     float64 `json:"taxa_eficiencia"`     // net / total * 100, 2 decimals
	ProdutividadeMedia int     `json:"produtividade_media"` // total / distinct users
}

// UserTotals is one user's issuance and reversal counts.
type UserTotals struct {
	Nome          string `json:"nome"`
	Emissoes      int    `json:"emissoes"`
	Cancelamentos int    `json:"cancelamentos"`
}

// UserCancellations projects only the reversal side of a user's totals.
type UserCancellations struct {
	Nome  string `json:"nome"`
	Total int    `json:"total"`
}

// ShiftTotals splits valid-time, non-reversed issuances around 14:00.
type ShiftTotals struct {
	Antes14h  int `json:"antes_14h"`
	Depois14h int `json:"depois_14h"`
}

// DayShift is the shift split of a single day.
type DayShift struct {
	Data      string `json:"data"`
	Antes14h  int    `json:"antes_14h"`
	Depois14h int    `json:"depois_14h"`
}

// DayTotals is one day's issuance and reversal counts.
type DayTotals struct {
	Data          string `json:"data"`
	Emissoes      int    `json:"emissoes"`
	Cancelamentos int    `json:"cancelamentos"`
}

// DayUsers nests per-user totals under a day.
type DayUsers struct {
	Data     string       `json:"data"`
	Usuarios []UserTotals `json:"usuarios"`
}

// TimelinePoint is one HH:00 bucket of the hourly timeline.
type TimelinePoint struct {
	Hora     string `json:"hora"`
	Emissoes int    `json:"emissoes"`
}

// Aggregates is the full wire payload served to the dashboard. Field names
// are the stable contract with the front end; every view is rebuilt from
// scratch on each request.
type Aggregates struct {
	CriadoEm                 string              `json:"criado_em"`
	Resumo                   Summary             `json:"resumo"`
	EmissoesPorUsuario       []UserTotals        `json:"emissoes_por_usuario"`
	CancelamentosPorUsuario  []UserCancellations `json:"cancelamentos_por_usuario"`
	EmissoesPorTurno         ShiftTotals         `json:"emissoes_por_turno"`
	EmissoesPorTurnoPorDia   []DayShift          `json:"emissoes_por_turno_por_dia"`
	TimelineOperacao         []TimelinePoint     `json:"timeline_operacao"`
	DadosPorDia              []DayTotals         `json:"dados_por_dia"`
	EmissoesPorUsuarioPorDia []DayUsers          `json:"emissoes_por_usuario_por_dia"`
}

// timestampBr is the human-readable stamp the dashboard shows for
// "last updated".
const timestampBr = "02/01/2006 15:04:05"

// FormatTimestamp renders a modification time the way the dashboard
// displays it.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampBr)
}

// Aggregate folds the record sequence into every dashboard view. The fold
// is pure: identical input always yields identical output, and ties in any
// descending sort keep the order in which the key first appeared in the
// source rows.
func Aggregate(records []IssuanceRecord, modTime time.Time) *Aggregates {
	type dayUserAcc struct {
		order []string
		users map[string]*UserTotals
	}

	byUser := map[string]*UserTotals{}
	byDay := map[string]*DayTotals{}
	byDayShift := map[string]*DayShift{}
	byDayUser := map[string]*dayUserAcc{}
	byHour := map[string]int{}
	shift := ShiftTotals{}

	var userOrder, dayOrder, hourOrder []string

	for _, r := range records {
		u, ok := byUser[r.Author]
		if !ok {
			u = &UserTotals{Nome: r.Author}
			byUser[r.Author] = u
			userOrder = append(userOrder, r.Author)
		}

		d, ok := byDay[r.Date]
		if !ok {
			d = &DayTotals{Data: r.Date}
			byDay[r.Date] = d
			byDayShift[r.Date] = &DayShift{Data: r.Date}
			byDayUser[r.Date] = &dayUserAcc{users: map[string]*UserTotals{}}
			dayOrder = append(dayOrder, r.Date)
		}

		du := byDayUser[r.Date]
		duu, ok := du.users[r.Author]
		if !ok {
			duu = &UserTotals{Nome: r.Author}
			du.users[r.Author] = duu
			du.order = append(du.order, r.Author)
		}

		if r.Reversed {
			u.Cancelamentos++
			d.Cancelamentos++
			duu.Cancelamentos++
			continue
		}

		u.Emissoes++
		d.Emissoes++
		duu.Emissoes++

		if r.Hour == NoTime || len(r.Hour) != 8 {
			continue
		}

		hour, err := strconv.Atoi(r.Hour[:2])
		if err != nil {
			continue
		}
		if hour < 14 {
			shift.Antes14h++
			byDayShift[r.Date].Antes14h++
		} else {
			shift.Depois14h++
			byDayShift[r.Date].Depois14h++
		}

		label := r.Hour[:2] + ":00"
		if _, ok := byHour[label]; !ok {
			hourOrder = append(hourOrder, label)
		}
		byHour[label]++
	}

	sortedDays := append([]string(nil), dayOrder...)
	sort.SliceStable(sortedDays, func(i, j int) bool {
		return dayKey(sortedDays[i]).Before(dayKey(sortedDays[j]))
	})

	users := make([]UserTotals, 0, len(userOrder))
	for _, name := range userOrder {
		users = append(users, *byUser[name])
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Emissoes > users[j].Emissoes
	})

	cancellations := make([]UserCancellations, 0, len(users))
	for _, u := range users {
		cancellations = append(cancellations, UserCancellations{Nome: u.Nome, Total: u.Cancelamentos})
	}
	sort.SliceStable(cancellations, func(i, j int) bool {
		return cancellations[i].Total > cancellations[j].Total
	})

	days := make([]DayTotals, 0, len(sortedDays))
	dayShifts := make([]DayShift, 0, len(sortedDays))
	dayUsers := make([]DayUsers, 0, len(sortedDays))
	for _, date := range sortedDays {
		days = append(days, *byDay[date])
		dayShifts = append(dayShifts, *byDayShift[date])

		du := byDayUser[date]
		list := make([]UserTotals, 0, len(du.order))
		for _, name := range du.order {
			list = append(list, *du.users[name])
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Emissoes > list[j].Emissoes
		})
		dayUsers = append(dayUsers, DayUsers{Data: date, Usuarios: list})
	}

	timeline := make([]TimelinePoint, 0, len(hourOrder))
	for _, label := range hourOrder {
		timeline = append(timeline, TimelinePoint{Hora: label, Emissoes: byHour[label]})
	}
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Hora < timeline[j].Hora
	})

	total := len(records)
	reversed := 0
	for _, r := range records {
		if r.Reversed {
			reversed++
		}
	}

	summary := Summary{
		TotalEmissoes:      total,
		TotalCancelamentos: reversed,
	}
	if total > 0 {
		net := float64(total-reversed) / float64(total) * 100
		summary.TaxaEficiencia = math.Round(net*100) / 100
	}
	if len(users) > 0 {
		summary.ProdutividadeMedia = int(math.Round(float64(total) / float64(len(users))))
	}

	return &Aggregates{
		CriadoEm:                 FormatTimestamp(modTime),
		Resumo:                   summary,
		EmissoesPorUsuario:       users,
		CancelamentosPorUsuario:  cancellations,
		EmissoesPorTurno:         shift,
		EmissoesPorTurnoPorDia:   dayShifts,
		TimelineOperacao:         timeline,
		DadosPorDia:              days,
		EmissoesPorUsuarioPorDia: dayUsers,
	}
}

// dayKey parses a DD/MM/YY label for chronological ordering. Two-digit
// years expand to 2000+YY, matching the source data's convention. Sentinel
// or malformed labels collapse to the zero time and sort first.
func dayKey(label string) time.Time {
	parts := strings.Split(label, "/")
	if len(parts) != 3 {
		return time.Time{}
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}
	}
	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
