// backend/services/reportService.go
package services

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"time"

	"mapa-despesas/backend/config"
)

// ReportParams são os parâmetros de geração de um mapa de despesas.
type ReportParams struct {
	Year     int
	Month    int
	MaxDaily float64
	MaxTotal float64

	CompanyName    string
	CompanyNIPC    string
	CompanyAddress string

	GestorName      string
	GestorAddress   string
	GestorNIFPS     string
	GestorCategoria string
}

// DayEntry é um dia preenchido do mapa.
type DayEntry struct {
	Date       time.Time `json:"-"`
	Data       string    `json:"data"`
	Objective  string    `json:"objetivo"`
	Location   string    `json:"local"`
	StartDay   string    `json:"inicioDia"`
	StartHour  string    `json:"inicioHora"`
	ReturnDay  string    `json:"regressoDia"`
	ReturnHour string    `json:"regressoHora"`
	Pct100     bool      `json:"pct100"`
	Pct75      bool      `json:"pct75"`
	Pct50      bool      `json:"pct50"`
	Pct25      bool      `json:"pct25"`
}

// ExpenseMap é o resultado da geração de um mês.
type ExpenseMap struct {
	Days            []DayEntry `json:"days"`
	Total           float64    `json:"total"`
	MaxPossible     float64    `json:"maxPossible"`
	WorkingDayCount int        `json:"workingDayCount"`
	Filename        string     `json:"filename"`
}

// ValidateParams verifica os limites dos parâmetros. Em 2025 o máximo diário
// do gestor está limitado por lei a 72,65 €.
func ValidateParams(p ReportParams) error {
	if p.Year < config.YearMin || p.Year > config.YearMax {
		return fmt.Errorf("o ano tem de estar entre %d e %d", config.YearMin, config.YearMax)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("o mês tem de estar entre 1 e 12")
	}

	maxDaily := config.MaxDailyMax
	if p.Year == 2025 {
		maxDaily = config.LegalMaxDaily2025
	}
	if p.MaxDaily < config.MaxDailyMin || p.MaxDaily > maxDaily {
		return fmt.Errorf("o valor máximo diário tem de estar entre %.2f e %.2f €", config.MaxDailyMin, maxDaily)
	}
	if p.MaxTotal < config.MaxTotalMin || p.MaxTotal > config.MaxTotalMax {
		return fmt.Errorf("o valor máximo total tem de estar entre %.2f e %.2f €", config.MaxTotalMin, config.MaxTotalMax)
	}
	if p.CompanyNIPC == "" {
		return fmt.Errorf("o NIPC da empresa é obrigatório")
	}
	return nil
}

// seedFor deriva a semente do gerador a partir do ano, mês e NIPC, para que
// o mesmo mês da mesma empresa produza sempre o mesmo mapa.
func seedFor(year, month int, nipc string) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d-%d-%s", year, month, nipc)
	return int64(h.Sum64())
}

// BuildExpenseMap gera o mapa de despesas de um mês de forma determinística.
func BuildExpenseMap(p ReportParams) (*ExpenseMap, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seedFor(p.Year, p.Month, p.CompanyNIPC)))

	workingDays := WorkingDays(p.Year, p.Month)
	shuffled := make([]time.Time, len(workingDays))
	copy(shuffled, workingDays)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	chosen, total := bestFillForBudget(shuffled, p.MaxDaily, p.MaxTotal)
	trips := groupConsecutiveDays(chosen)
	days := categorizeTrips(trips, rng)

	m := &ExpenseMap{
		Days:            days,
		Total:           total,
		MaxPossible:     p.MaxDaily * float64(len(workingDays)),
		WorkingDayCount: len(workingDays),
		Filename:        fmt.Sprintf("MapaDespesas_%04d_%02d_%s.xlsx", p.Year, p.Month, p.CompanyNIPC),
	}
	return m, nil
}

// bestFillForBudget escolhe quantos dos dias baralhados preencher de modo a
// aproximar o total do limite mensal sem o ultrapassar. Testa uma janela de
// contagens à volta da estimativa inicial e fica com a melhor.
func bestFillForBudget(shuffled []time.Time, maxDaily, maxTotal float64) ([]time.Time, float64) {
	estimatedAvgPercentage := 0.80
	maxDaysPossible := int(maxTotal / (maxDaily * estimatedAvgPercentage))
	if maxDaysPossible > len(shuffled) {
		maxDaysPossible = len(shuffled)
	}

	bestNumDays := maxDaysPossible
	bestTotal := 0.0

	minTest := maxDaysPossible - 3
	if minTest < 1 {
		minTest = 1
	}
	maxTest := maxDaysPossible + 5
	if maxTest > len(shuffled) {
		maxTest = len(shuffled)
	}

	for n := minTest; n <= maxTest; n++ {
		simulated := simulateTotal(sortedDays(shuffled[:n]), maxDaily)
		if simulated <= maxTotal && simulated > bestTotal {
			bestNumDays = n
			bestTotal = simulated
		}
	}

	return sortedDays(shuffled[:bestNumDays]), bestTotal
}

func sortedDays(days []time.Time) []time.Time {
	out := make([]time.Time, len(days))
	copy(out, days)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// simulateTotal calcula o total como o mapa final o fará: numa deslocação de
// vários dias o último dia vale 25%, todos os restantes 100%.
func simulateTotal(days []time.Time, maxDaily float64) float64 {
	count100, count25 := 0, 0
	for _, trip := range groupConsecutiveDays(days) {
		n := len(trip)
		for i := range trip {
			if n > 1 && i == n-1 {
				count25++
			} else {
				count100++
			}
		}
	}
	total := float64(count100)*maxDaily + float64(count25)*maxDaily*0.25
	return math.Round(total*100) / 100
}

// groupConsecutiveDays agrupa dias de calendário consecutivos numa deslocação.
func groupConsecutiveDays(days []time.Time) [][]time.Time {
	if len(days) == 0 {
		return nil
	}

	var trips [][]time.Time
	trip := []time.Time{days[0]}
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]).Hours() == 24 {
			trip = append(trip, days[i])
		} else {
			trips = append(trips, trip)
			trip = []time.Time{days[i]}
		}
	}
	trips = append(trips, trip)
	return trips
}

// categorizeTrips atribui percentagens, objetivo e horários a cada dia.
// Deslocações de um dia valem 100%; em deslocações de vários dias o primeiro
// e os dias intermédios valem 100% e o último 25%.
func categorizeTrips(trips [][]time.Time, rng *rand.Rand) []DayEntry {
	var days []DayEntry
	for _, trip := range trips {
		objective := config.Objectives[rng.Intn(len(config.Objectives))]
		n := len(trip)
		for i, d := range trip {
			entry := DayEntry{
				Date:       d,
				Data:       d.Format("2006-01-02"),
				Objective:  objective,
				Location:   config.ClientAddress,
				StartDay:   d.Format("02/01/2006"),
				StartHour:  config.TripStartTime,
				ReturnDay:  d.Format("02/01/2006"),
				ReturnHour: config.TripEndTime,
			}
			if n > 1 && i == n-1 {
				entry.Pct25 = true
			} else {
				entry.Pct100 = true
			}
			days = append(days, entry)
		}
	}
	return days
}
