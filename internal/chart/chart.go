// Package chart turns the unified table into an animated bubble chart for a
// set of user-selected countries.
package chart

import (
	"math"
	"sort"

	"gapminder/internal/engine"
	"gapminder/internal/errors"
	"gapminder/internal/models"

	"gonum.org/v1/gonum/floats"
)

const (
	Title = "Gapminder: Animated Bubble Chart"

	MinGNIPerCapita = 100
	MaxGNIPerCapita = 100000
	MaxBubbleSize   = 60

	NoSelectionMessage = "Please select at least one country."
	NoDataMessage      = "No complete population, life expectancy and GNI data for the selected countries."
)

// palette is the default qualitative colour sequence, cycled per country.
var palette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// DefaultSelection returns the preferred countries that exist, in preferred order.
func DefaultSelection(countries, preferred []string) []string {
	have := make(map[string]bool, len(countries))
	for _, c := range countries {
		have[c] = true
	}
	out := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if have[p] {
			out = append(out, p)
		}
	}
	return out
}

// Filter keeps the rows of selected countries that have all three values,
// in input order.
func Filter(records []engine.UnifiedRecord, selected []string) []engine.UnifiedRecord {
	want := make(map[string]bool, len(selected))
	for _, c := range selected {
		want[c] = true
	}
	var out []engine.UnifiedRecord
	for _, r := range records {
		if want[r.Country] && r.Complete() {
			out = append(out, r)
		}
	}
	return out
}

// Build filters records to the selection and lays them out as one frame per
// year. An empty selection is INVALID_INPUT; a selection without plottable
// rows yields a chart with no frames and a warning.
func Build(records []engine.UnifiedRecord, selected []string) (*models.ChartData, error) {
	if len(selected) == 0 {
		return nil, errors.InvalidInput(NoSelectionMessage)
	}

	rows := Filter(records, selected)
	data := &models.ChartData{
		Title:          Title,
		X:              models.Axis{Field: engine.ColumnGNIPerCapita, Title: "GNI per capita", Log: true, Range: &[2]float64{MinGNIPerCapita, MaxGNIPerCapita}},
		Y:              models.Axis{Field: engine.ColumnLifeExpectancy, Title: "Life expectancy"},
		SizeField:      engine.ColumnPopulation,
		MaxSize:        MaxBubbleSize,
		AnimationFrame: "year",
		AnimationGroup: engine.CountryColumn,
		Selected:       append([]string(nil), selected...),
		Series:         []models.Series{},
		Frames:         []models.Frame{},
	}
	if len(rows) == 0 {
		data.Warning = NoDataMessage
		return data, nil
	}

	pops := make([]float64, len(rows))
	order := make(map[string]int)
	for i, r := range rows {
		pops[i] = r.Population.Or(0)
		if _, ok := order[r.Country]; !ok {
			order[r.Country] = len(order)
			data.Series = append(data.Series, models.Series{
				Country: r.Country,
				Color:   palette[(len(order)-1)%len(palette)],
			})
		}
	}
	maxPop := floats.Max(pops)

	frames := make(map[int]*models.Frame)
	for _, r := range rows {
		f := frames[r.Year]
		if f == nil {
			f = &models.Frame{Year: r.Year}
			frames[r.Year] = f
		}
		pop := r.Population.Or(0)
		f.Points = append(f.Points, models.Point{
			Country:        r.Country,
			GNIPerCapita:   r.GNIPerCapita.Or(0),
			LifeExpectancy: r.LifeExpectancy.Or(0),
			Population:     pop,
			Size:           BubbleSize(pop, maxPop),
		})
	}

	for _, f := range frames {
		sort.SliceStable(f.Points, func(i, j int) bool { return order[f.Points[i].Country] < order[f.Points[j].Country] })
		data.Frames = append(data.Frames, *f)
	}
	sort.Slice(data.Frames, func(i, j int) bool { return data.Frames[i].Year < data.Frames[j].Year })
	return data, nil
}

// BubbleSize maps population to a diameter so that bubble area is
// proportional to population and the largest bubble is MaxBubbleSize.
func BubbleSize(pop, maxPop float64) float64 {
	if maxPop <= 0 || pop <= 0 {
		return 0
	}
	return MaxBubbleSize * math.Sqrt(pop/maxPop)
}
