package engine

import (
	"fmt"
	"strconv"
	"strings"

	"gapminder/internal/errors"
)

// placeholders are source tokens that mean "no data".
var placeholders = map[string]struct{}{
	"":    {},
	"..":  {},
	"N/A": {},
}

// LongRecord is one (country, year) cell after reshaping.
type LongRecord struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Value   Value  `json:"value"`
}

// LongTable is a tidied source: R*C records in row-then-column order.
type LongTable struct {
	ValueName string
	Source    string
	Countries int
	Years     []int
	Records   []LongRecord
}

// IsPlaceholder reports whether s stands for a missing value.
func IsPlaceholder(s string) bool {
	_, ok := placeholders[strings.TrimSpace(s)]
	return ok
}

// NormalizePlaceholders replaces placeholder cells with the missing marker.
func NormalizePlaceholders(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		if c.Present && !IsPlaceholder(c.Text) {
			out[i] = c
		}
	}
	return out
}

// ForwardFill carries the last present cell into following missing cells.
// Leading missing cells stay missing. The input is not modified.
func ForwardFill(cells []Cell) []Cell {
	out := make([]Cell, len(cells))
	last := MissingCell
	for i, c := range cells {
		if c.Present {
			last = c
		}
		out[i] = last
	}
	return out
}

// ParseYears converts the year headers to integers. Any non-integer or
// repeated header fails the table.
func ParseYears(t *WideTable) ([]int, error) {
	years := make([]int, len(t.Years))
	seen := make(map[int]struct{}, len(t.Years))
	for i, h := range t.Years {
		y, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil, errors.MalformedSource(t.Source, fmt.Sprintf("year column %q is not an integer", h))
		}
		if _, dup := seen[y]; dup {
			return nil, errors.MalformedSource(t.Source, fmt.Sprintf("year column %d appears twice", y))
		}
		seen[y] = struct{}{}
		years[i] = y
	}
	return years, nil
}

// Tidy reshapes a wide table into long records named valueName: placeholders
// become missing, gaps are forward-filled along each row in column order, and
// each cell is parsed with ParseMagnitude.
func Tidy(t *WideTable, valueName string) (*LongTable, error) {
	years, err := ParseYears(t)
	if err != nil {
		return nil, err
	}

	out := &LongTable{
		ValueName: valueName,
		Source:    t.Source,
		Countries: len(t.Rows),
		Years:     years,
		Records:   make([]LongRecord, 0, len(t.Rows)*len(years)),
	}
	for _, row := range t.Rows {
		cells := ForwardFill(NormalizePlaceholders(row.Cells))
		for j, year := range years {
			out.Records = append(out.Records, LongRecord{
				Country: row.Country,
				Year:    year,
				Value:   ParseCell(cells[j]),
			})
		}
	}
	return out, nil
}
