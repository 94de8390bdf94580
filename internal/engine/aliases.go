package engine

// countryAliases maps source spellings to the canonical country name.
var countryAliases = map[string]string{
	"USA":         "United States",
	"UK":          "United Kingdom",
	"Korea, Rep.": "South Korea",
}

// CanonicalCountry returns the canonical spelling of name.
func CanonicalCountry(name string) string {
	if canonical, ok := countryAliases[name]; ok {
		return canonical
	}
	return name
}

// CountryAliases returns a copy of the alias table.
func CountryAliases() map[string]string {
	out := make(map[string]string, len(countryAliases))
	for k, v := range countryAliases {
		out[k] = v
	}
	return out
}

// Harmonize rewrites every country in t to its canonical spelling.
func Harmonize(t *LongTable) {
	for i := range t.Records {
		t.Records[i].Country = CanonicalCountry(t.Records[i].Country)
	}
}
