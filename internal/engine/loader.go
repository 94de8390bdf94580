package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gapminder/internal"
	"gapminder/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Value column names of the three sources.
const (
	ColumnPopulation     = "population"
	ColumnLifeExpectancy = "life_expectancy"
	ColumnGNIPerCapita   = "gni_per_capita"
)

// Sources holds the paths of the three source tables.
type Sources struct {
	Population     string
	LifeExpectancy string
	GNIPerCapita   string
}

func (s Sources) list() [3]source {
	return [3]source{
		{valueName: ColumnPopulation, path: s.Population},
		{valueName: ColumnLifeExpectancy, path: s.LifeExpectancy},
		{valueName: ColumnGNIPerCapita, path: s.GNIPerCapita},
	}
}

type source struct {
	valueName string
	path      string
}

// UnifiedRecord is one joined (country, year) row.
type UnifiedRecord struct {
	Country        string `json:"country"`
	Year           int    `json:"year"`
	Population     Value  `json:"population"`
	LifeExpectancy Value  `json:"life_expectancy"`
	GNIPerCapita   Value  `json:"gni_per_capita"`
}

// Complete reports whether all three values are present.
func (r UnifiedRecord) Complete() bool {
	return r.Population.Valid() && r.LifeExpectancy.Valid() && r.GNIPerCapita.Valid()
}

// SourceDiagnostics describes what one source contributed to the join.
type SourceDiagnostics struct {
	ValueName  string `json:"value_name"`
	Path       string `json:"path"`
	Countries  int    `json:"countries"`
	Years      int    `json:"years"`
	Records    int    `json:"records"`
	Duplicates int    `json:"duplicates"`
	Dropped    int    `json:"dropped"`
}

// Diagnostics reports join losses. Dropped counts the distinct keys of a
// source that did not survive the inner join; Duplicates counts records whose
// key repeated an earlier record of the same source after alias harmonization.
type Diagnostics struct {
	Sources []SourceDiagnostics `json:"sources"`
	Joined  int                 `json:"joined"`
}

// Dataset is the unified table plus its column-store view.
type Dataset struct {
	Records     []UnifiedRecord
	Store       *ColumnStore
	Diagnostics Diagnostics
	LoadedAt    time.Time
	Duration    time.Duration
}

// Countries returns distinct country names in first-appearance order.
func (d *Dataset) Countries() []string {
	return d.Store.Countries()
}

type joinKey struct {
	country string
	year    int
}

// LoadDataset reads and tidies the three sources, harmonizes country names
// and inner-joins them on (country, year). Any fatal source error aborts the
// whole load.
func LoadDataset(ctx context.Context, src Sources, logger *internal.Logger) (*Dataset, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	start := time.Now()
	logger.Info("Loading sources: %s, %s, %s", src.Population, src.LifeExpectancy, src.GNIPerCapita)

	var tables [3]*LongTable
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range src.list() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wide, err := NewSourceReader(s.path, logger).ReadWide()
			if err != nil {
				return errors.Wrapf(err, "load %s", s.valueName)
			}
			long, err := Tidy(wide, s.valueName)
			if err != nil {
				return errors.Wrapf(err, "tidy %s", s.valueName)
			}
			Harmonize(long)
			tables[i] = long
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Load failed: %v", err)
		return nil, err
	}

	records, diag := Join(tables[0], tables[1], tables[2])
	for _, sd := range diag.Sources {
		if sd.Dropped > 0 || sd.Duplicates > 0 {
			logger.Info("Join: %s dropped %d keys, collapsed %d duplicates", sd.ValueName, sd.Dropped, sd.Duplicates)
		}
	}

	ds := &Dataset{
		Records:     records,
		Store:       NewColumnStore(records),
		Diagnostics: diag,
		LoadedAt:    time.Now(),
		Duration:    time.Since(start),
	}
	logger.Info("Load Complete. Rows: %d. Countries: %d. Time: %v", len(records), len(ds.Store.CountryDict), ds.Duration)
	return ds, nil
}

type indexedTable struct {
	table *LongTable
	index map[joinKey]Value
	dupes int
}

func indexTable(t *LongTable) *indexedTable {
	it := &indexedTable{table: t, index: make(map[joinKey]Value, len(t.Records))}
	for _, rec := range t.Records {
		k := joinKey{rec.Country, rec.Year}
		if _, dup := it.index[k]; dup {
			it.dupes++
			continue
		}
		it.index[k] = rec.Value
	}
	return it
}

// Join inner-joins the three tidied tables on (country, year). Output follows
// the population table's order. Unmatched keys are dropped silently; the
// returned Diagnostics counts them.
func Join(population, lifeExpectancy, gni *LongTable) ([]UnifiedRecord, Diagnostics) {
	pop := indexTable(population)
	life := indexTable(lifeExpectancy)
	inc := indexTable(gni)

	joined := make(map[joinKey]struct{}, len(pop.index))
	out := make([]UnifiedRecord, 0, len(pop.index))
	for _, rec := range population.Records {
		k := joinKey{rec.Country, rec.Year}
		if _, done := joined[k]; done {
			continue
		}
		lv, ok := life.index[k]
		if !ok {
			continue
		}
		gv, ok := inc.index[k]
		if !ok {
			continue
		}
		joined[k] = struct{}{}
		out = append(out, UnifiedRecord{
			Country:        rec.Country,
			Year:           rec.Year,
			Population:     pop.index[k].Coerce(),
			LifeExpectancy: lv.Coerce(),
			GNIPerCapita:   gv.Coerce(),
		})
	}

	diag := Diagnostics{Joined: len(out)}
	for _, it := range []*indexedTable{pop, life, inc} {
		diag.Sources = append(diag.Sources, SourceDiagnostics{
			ValueName:  it.table.ValueName,
			Path:       it.table.Source,
			Countries:  it.table.Countries,
			Years:      len(it.table.Years),
			Records:    len(it.table.Records),
			Duplicates: it.dupes,
			Dropped:    len(it.index) - len(out),
		})
	}
	return out, diag
}

// Loader computes the dataset once per process and hands out the same
// result afterwards. A failed load is not cached.
type Loader struct {
	sources Sources
	logger  *internal.Logger
	load    func(context.Context, Sources, *internal.Logger) (*Dataset, error)

	mu      sync.Mutex
	dataset atomic.Pointer[Dataset]
}

// NewLoader creates a loader for the given sources.
func NewLoader(src Sources, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{sources: src, logger: logger, load: LoadDataset}
}

// Load returns the memoized dataset, computing it on first use.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	if ds := l.dataset.Load(); ds != nil {
		return ds, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if ds := l.dataset.Load(); ds != nil {
		return ds, nil
	}

	ds, err := l.load(ctx, l.sources, l.logger)
	if err != nil {
		return nil, err
	}
	l.dataset.Store(ds)
	return ds, nil
}

// Cached returns the dataset if it has been loaded, without blocking.
func (l *Loader) Cached() *Dataset {
	return l.dataset.Load()
}
