// backend/services/calendarService.go
package services

import "time"

// EasterSunday devolve o domingo de Páscoa de um ano (computus gregoriano).
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// NationalHolidays devolve os feriados nacionais portugueses de um ano.
func NationalHolidays(year int) []time.Time {
	easter := EasterSunday(year)

	fixed := []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},    // Ano Novo
		{time.April, 25},     // Dia da Liberdade
		{time.May, 1},        // Dia do Trabalhador
		{time.June, 10},      // Dia de Portugal
		{time.August, 15},    // Assunção de Nossa Senhora
		{time.October, 5},    // Implantação da República
		{time.November, 1},   // Todos os Santos
		{time.December, 1},   // Restauração da Independência
		{time.December, 8},   // Imaculada Conceição
		{time.December, 25},  // Natal
	}

	holidays := make([]time.Time, 0, len(fixed)+3)
	for _, f := range fixed {
		holidays = append(holidays, time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC))
	}
	holidays = append(holidays,
		easter.AddDate(0, 0, -2), // Sexta-feira Santa
		easter,                   // Páscoa
		easter.AddDate(0, 0, 60), // Corpo de Deus
	)
	return holidays
}

// IsWorkingDay indica se um dia é útil: segunda a sexta e não feriado.
func IsWorkingDay(d time.Time) bool {
	if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		return false
	}
	for _, h := range NationalHolidays(d.Year()) {
		if h.Month() == d.Month() && h.Day() == d.Day() {
			return false
		}
	}
	return true
}

// MonthDays devolve todos os dias de um mês.
func MonthDays(year, month int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var days []time.Time
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WorkingDays devolve os dias úteis de um mês.
func WorkingDays(year, month int) []time.Time {
	var days []time.Time
	for _, d := range MonthDays(year, month) {
		if IsWorkingDay(d) {
			days = append(days, d)
		}
	}
	return days
}
