package engine

// ColumnStore holds the unified table in Struct-of-Arrays format
type ColumnStore struct {
	// Dictionary Encoded IDs (0..N), CountryDict in first-appearance order
	CountryIDs  []int32
	CountryDict []string

	Years []int32

	// Value Columns with validity
	Population          []float64
	PopulationValid     []bool
	LifeExpectancy      []float64
	LifeExpectancyValid []bool
	GNIPerCapita        []float64
	GNIPerCapitaValid   []bool

	countryIndex map[string]int32
}

// NewColumnStore builds the column view of records.
func NewColumnStore(records []UnifiedRecord) *ColumnStore {
	n := len(records)
	cs := &ColumnStore{
		CountryIDs:          make([]int32, n),
		Years:               make([]int32, n),
		Population:          make([]float64, n),
		PopulationValid:     make([]bool, n),
		LifeExpectancy:      make([]float64, n),
		LifeExpectancyValid: make([]bool, n),
		GNIPerCapita:        make([]float64, n),
		GNIPerCapitaValid:   make([]bool, n),
		countryIndex:        make(map[string]int32),
	}

	for i, r := range records {
		id, ok := cs.countryIndex[r.Country]
		if !ok {
			id = int32(len(cs.CountryDict))
			cs.CountryDict = append(cs.CountryDict, r.Country)
			cs.countryIndex[r.Country] = id
		}
		cs.CountryIDs[i] = id
		cs.Years[i] = int32(r.Year)
		cs.Population[i], cs.PopulationValid[i] = r.Population.Float()
		cs.LifeExpectancy[i], cs.LifeExpectancyValid[i] = r.LifeExpectancy.Float()
		cs.GNIPerCapita[i], cs.GNIPerCapitaValid[i] = r.GNIPerCapita.Float()
	}
	return cs
}

// Len is the number of rows.
func (cs *ColumnStore) Len() int { return len(cs.Years) }

// Countries returns a copy of the country dictionary.
func (cs *ColumnStore) Countries() []string {
	return append([]string(nil), cs.CountryDict...)
}

// CountryID looks up the dictionary ID of name.
func (cs *ColumnStore) CountryID(name string) (int32, bool) {
	id, ok := cs.countryIndex[name]
	return id, ok
}

// Complete reports whether row i has all three values.
func (cs *ColumnStore) Complete(i int) bool {
	return cs.PopulationValid[i] && cs.LifeExpectancyValid[i] && cs.GNIPerCapitaValid[i]
}

// Record rebuilds row i.
func (cs *ColumnStore) Record(i int) UnifiedRecord {
	return UnifiedRecord{
		Country:        cs.CountryDict[cs.CountryIDs[i]],
		Year:           int(cs.Years[i]),
		Population:     value(cs.Population[i], cs.PopulationValid[i]),
		LifeExpectancy: value(cs.LifeExpectancy[i], cs.LifeExpectancyValid[i]),
		GNIPerCapita:   value(cs.GNIPerCapita[i], cs.GNIPerCapitaValid[i]),
	}
}

// Select returns the rows whose country is in countries, in table order.
// With completeOnly, rows with any missing value are skipped.
func (cs *ColumnStore) Select(countries []string, completeOnly bool) []UnifiedRecord {
	want := make([]bool, len(cs.CountryDict))
	for _, c := range countries {
		if id, ok := cs.countryIndex[c]; ok {
			want[id] = true
		}
	}

	var out []UnifiedRecord
	for i, id := range cs.CountryIDs {
		if !want[id] || (completeOnly && !cs.Complete(i)) {
			continue
		}
		out = append(out, cs.Record(i))
	}
	return out
}

func value(f float64, ok bool) Value {
	if !ok {
		return Missing
	}
	return Some(f)
}
