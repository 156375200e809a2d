// Package calendar lays out a month as a Monday-first grid of selectable days.
package calendar

import (
	"fmt"
	"time"
)

// MonthNames holds the nominative month names used in headers, January first.
var MonthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// WeekdayLabels is the fixed label row, Monday first.
var WeekdayLabels = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// Day is a selectable cell. A zero Day is blank padding.
type Day struct {
	Date time.Time
}

// Blank reports whether the cell is padding.
func (d Day) Blank() bool {
	return d.Date.IsZero()
}

// Grid is a rendered month.
type Grid struct {
	Year   int
	Month  time.Month
	Header string
	Weeks  [][7]Day
	Prev   YearMonth
	Next   YearMonth
}

// YearMonth addresses a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Add shifts the month by delta, rolling the year over at the boundaries.
func (ym YearMonth) Add(delta int) YearMonth {
	t := time.Date(ym.Year, ym.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Days returns the number of populated cells.
func (g Grid) Days() int {
	n := 0
	for _, week := range g.Weeks {
		for _, cell := range week {
			if !cell.Blank() {
				n++
			}
		}
	}
	return n
}

// Month builds the grid for the given month. Out-of-range months are
// normalized the way time.Date normalizes them.
func Month(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()
	last := first.AddDate(0, 1, -1)

	// Monday is column zero.
	offset := (int(first.Weekday()) + 6) % 7

	var weeks [][7]Day
	var week [7]Day
	col := offset
	for day := 1; day <= last.Day(); day++ {
		week[col] = Day{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]Day{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}

	current := YearMonth{Year: year, Month: month}
	return Grid{
		Year:   year,
		Month:  month,
		Header: Title(year, month),
		Weeks:  weeks,
		Prev:   current.Add(-1),
		Next:   current.Add(1),
	}
}

// Title formats "Месяц YYYY".
func Title(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%d-%02d", year, int(month))
	}
	return fmt.Sprintf("%s %d", MonthNames[month-1], year)
}
