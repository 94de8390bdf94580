package engine

import (
	"sort"

	"gapminder/internal/models"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

type yearBucket struct {
	pops  []float64
	lifes []float64
	gnis  []float64
}

// Summarize aggregates the complete rows of each year, years ascending.
// Mean life expectancy is population-weighted.
func (cs *ColumnStore) Summarize() []models.YearSummary {
	buckets := make(map[int32]*yearBucket)
	for i, year := range cs.Years {
		if !cs.Complete(i) {
			continue
		}
		b := buckets[year]
		if b == nil {
			b = &yearBucket{}
			buckets[year] = b
		}
		b.pops = append(b.pops, cs.Population[i])
		b.lifes = append(b.lifes, cs.LifeExpectancy[i])
		b.gnis = append(b.gnis, cs.GNIPerCapita[i])
	}

	out := make([]models.YearSummary, 0, len(buckets))
	for year, b := range buckets {
		s := models.YearSummary{
			Year:      int(year),
			Countries: len(b.pops),
		}
		s.TotalPopulation, _ = stats.Sum(b.pops)
		if s.TotalPopulation > 0 {
			s.MeanLifeExpectancy = stat.Mean(b.lifes, b.pops)
		} else {
			s.MeanLifeExpectancy = stat.Mean(b.lifes, nil)
		}
		s.MedianLifeExpectancy, _ = stats.Median(b.lifes)
		s.MedianGNIPerCapita, _ = stats.Median(b.gnis)
		s.MinGNIPerCapita, _ = stats.Min(b.gnis)
		s.MaxGNIPerCapita, _ = stats.Max(b.gnis)
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
