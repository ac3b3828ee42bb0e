// backend/services/reportService_test.go
package services

import (
	"testing"

	"mapa-despesas/backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() ReportParams {
	return ReportParams{
		Year:     2024,
		Month:    5,
		MaxDaily: 65,
		MaxTotal: 1000,

		CompanyName:    "Empresa Teste, Lda.",
		CompanyNIPC:    "509876543",
		CompanyAddress: "Rua de Teste, 1, Porto",

		GestorName:      "Maria Silva",
		GestorAddress:   "Avenida Central, 10, Lisboa",
		GestorNIFPS:     "123456789",
		GestorCategoria: "Gestor",
	}
}

func TestBuildExpenseMapDeterministic(t *testing.T) {
	first, err := BuildExpenseMap(testParams())
	require.NoError(t, err)
	second, err := BuildExpenseMap(testParams())
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	require.Equal(t, len(first.Days), len(second.Days))
	for i := range first.Days {
		assert.Equal(t, first.Days[i], second.Days[i])
	}
}

func TestBuildExpenseMapSeedDependsOnNIPC(t *testing.T) {
	a, err := BuildExpenseMap(testParams())
	require.NoError(t, err)

	p := testParams()
	p.CompanyNIPC = "500000001"
	b, err := BuildExpenseMap(p)
	require.NoError(t, err)

	// Empresas diferentes produzem mapas diferentes para o mesmo mês.
	same := len(a.Days) == len(b.Days)
	if same {
		for i := range a.Days {
			if a.Days[i].Data != b.Days[i].Data || a.Days[i].Objective != b.Days[i].Objective {
				same = false
				break
			}
		}
	}
	assert.False(t, same, "mapas de NIPCs diferentes não deviam ser idênticos")
}

func TestBuildExpenseMapRespectsBudget(t *testing.T) {
	m, err := BuildExpenseMap(testParams())
	require.NoError(t, err)

	assert.LessOrEqual(t, m.Total, testParams().MaxTotal)
	assert.NotEmpty(t, m.Days)

	// O total corresponde às percentagens atribuídas.
	sum := 0.0
	for _, d := range m.Days {
		switch {
		case d.Pct100:
			sum += testParams().MaxDaily
		case d.Pct75:
			sum += testParams().MaxDaily * 0.75
		case d.Pct50:
			sum += testParams().MaxDaily * 0.50
		case d.Pct25:
			sum += testParams().MaxDaily * 0.25
		}
	}
	assert.InDelta(t, m.Total, sum, 0.01)
}

func TestBuildExpenseMapTripCategorization(t *testing.T) {
	m, err := BuildExpenseMap(testParams())
	require.NoError(t, err)
	require.NotEmpty(t, m.Days)

	for i, d := range m.Days {
		// Cada dia tem exatamente uma percentagem atribuída.
		count := 0
		for _, flag := range []bool{d.Pct100, d.Pct75, d.Pct50, d.Pct25} {
			if flag {
				count++
			}
		}
		require.Equal(t, 1, count, "dia %s com %d percentagens", d.Data, count)

		// 25% só aparece no último dia de uma deslocação de vários dias.
		if d.Pct25 {
			require.Greater(t, i, 0, "25%% não pode ser o primeiro dia do mapa")
			prev := m.Days[i-1]
			require.Equal(t, int64(1), int64(d.Date.Sub(prev.Date).Hours()/24),
				"o dia a 25%% tem de seguir um dia da mesma deslocação")
			if i+1 < len(m.Days) {
				next := m.Days[i+1]
				require.NotEqual(t, int64(1), int64(next.Date.Sub(d.Date).Hours()/24),
					"o dia a 25%% tem de ser o último da deslocação")
			}
		}

		assert.Equal(t, config.ClientAddress, d.Location)
		assert.Equal(t, config.TripStartTime, d.StartHour)
		assert.Equal(t, config.TripEndTime, d.ReturnHour)
	}
}

func TestBuildExpenseMapObjectiveConstantWithinTrip(t *testing.T) {
	m, err := BuildExpenseMap(testParams())
	require.NoError(t, err)

	for i := 1; i < len(m.Days); i++ {
		prev, curr := m.Days[i-1], m.Days[i]
		if int64(curr.Date.Sub(prev.Date).Hours()/24) == 1 {
			assert.Equal(t, prev.Objective, curr.Objective,
				"dias consecutivos da mesma deslocação devem partilhar o objetivo")
		}
	}
}

func TestBuildExpenseMapEmptyWhenBudgetTooSmall(t *testing.T) {
	p := testParams()
	p.MaxDaily = 100
	p.MaxTotal = 50

	m, err := BuildExpenseMap(p)
	require.NoError(t, err)
	assert.Empty(t, m.Days)
	assert.Zero(t, m.Total)
}

func TestBuildExpenseMapFilename(t *testing.T) {
	m, err := BuildExpenseMap(testParams())
	require.NoError(t, err)
	assert.Equal(t, "MapaDespesas_2024_05_509876543.xlsx", m.Filename)
}

func TestValidateParams(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ReportParams)
		ok     bool
	}{
		{"válido", func(p *ReportParams) {}, true},
		{"ano abaixo do mínimo", func(p *ReportParams) { p.Year = 2019 }, false},
		{"ano acima do máximo", func(p *ReportParams) { p.Year = 2101 }, false},
		{"mês inválido", func(p *ReportParams) { p.Month = 13 }, false},
		{"máximo diário a zero", func(p *ReportParams) { p.MaxDaily = 0 }, false},
		{"máximo diário acima do limite", func(p *ReportParams) { p.MaxDaily = 150 }, false},
		{"total acima do limite", func(p *ReportParams) { p.MaxTotal = 6000 }, false},
		{"sem NIPC", func(p *ReportParams) { p.CompanyNIPC = "" }, false},
		{"limite legal de 2025 excedido", func(p *ReportParams) { p.Year = 2025; p.MaxDaily = 80 }, false},
		{"limite legal de 2025 respeitado", func(p *ReportParams) { p.Year = 2025; p.MaxDaily = config.LegalMaxDaily2025 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := testParams()
			tc.mutate(&p)
			err := ValidateParams(p)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGroupConsecutiveDays(t *testing.T) {
	days := WorkingDays(2024, 5)
	require.NotEmpty(t, days)

	trips := groupConsecutiveDays(days)
	total := 0
	for _, trip := range trips {
		require.NotEmpty(t, trip)
		total += len(trip)
		for i := 1; i < len(trip); i++ {
			if int64(trip[i].Sub(trip[i-1]).Hours()/24) != 1 {
				t.Fatalf("dias não consecutivos na mesma deslocação: %v e %v", trip[i-1], trip[i])
			}
		}
	}
	assert.Equal(t, len(days), total)
}
