package engine

import (
	"fmt"
	"strings"
	"testing"

	"gapminder/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c.Present {
			out[i] = c.Text
		} else {
			out[i] = "<NA>"
		}
	}
	return out
}

func TestForwardFill(t *testing.T) {
	row := []Cell{TextCell("10"), MissingCell, MissingCell, TextCell("20")}
	assert.Equal(t, []string{"10", "10", "10", "20"}, texts(ForwardFill(row)))

	leading := []Cell{MissingCell, TextCell("5"), MissingCell}
	assert.Equal(t, []string{"<NA>", "5", "5"}, texts(ForwardFill(leading)))

	// input untouched
	assert.False(t, row[1].Present)
}

func TestNormalizePlaceholders(t *testing.T) {
	row := []Cell{TextCell(".."), TextCell("N/A"), TextCell(""), TextCell("  "), TextCell(" .. "), TextCell("3k"), MissingCell}
	assert.Equal(t, []string{"<NA>", "<NA>", "<NA>", "<NA>", "<NA>", "3k", "<NA>"}, texts(NormalizePlaceholders(row)))
}

func TestPlaceholderIsFilledBeforeParsing(t *testing.T) {
	table, err := ReadWideCSV("pop.csv", strings.NewReader("country,1990,1991,1992\nChad,1.2M,..,N/A\n"))
	require.NoError(t, err)

	long, err := Tidy(table, "population")
	require.NoError(t, err)
	require.Len(t, long.Records, 3)
	for _, rec := range long.Records {
		assert.Equal(t, 1_200_000.0, rec.Value.Or(-1), "year %d", rec.Year)
	}
}

func TestUnparseableCellIsCarriedNotFilled(t *testing.T) {
	table, err := ReadWideCSV("gni.csv", strings.NewReader("country,2000,2001,2002\nPeru,4k,oops,\n"))
	require.NoError(t, err)

	long, err := Tidy(table, "gni_per_capita")
	require.NoError(t, err)

	// "oops" is a present value, so it is carried into 2002 and both parse to missing.
	assert.Equal(t, 4000.0, long.Records[0].Value.Or(-1))
	assert.False(t, long.Records[1].Value.Valid())
	assert.False(t, long.Records[2].Value.Valid())
}

func TestTidyShapeIsFullCrossProduct(t *testing.T) {
	const rows, cols = 4, 5
	var b strings.Builder
	b.WriteString("country")
	for c := 0; c < cols; c++ {
		fmt.Fprintf(&b, ",%d", 2000+c)
	}
	b.WriteString("\n")
	for r := 0; r < rows; r++ {
		fmt.Fprintf(&b, "C%d", r)
		for c := 0; c < cols; c++ {
			if (r+c)%3 == 0 {
				b.WriteString(",..")
			} else {
				fmt.Fprintf(&b, ",%d", r*10+c)
			}
		}
		b.WriteString("\n")
	}

	table, err := ReadWideCSV("grid.csv", strings.NewReader(b.String()))
	require.NoError(t, err)
	long, err := Tidy(table, "population")
	require.NoError(t, err)

	require.Len(t, long.Records, rows*cols)
	assert.Equal(t, rows, long.Countries)
	assert.Equal(t, []int{2000, 2001, 2002, 2003, 2004}, long.Years)

	seen := map[string]bool{}
	for i, rec := range long.Records {
		// row-major order
		assert.Equal(t, fmt.Sprintf("C%d", i/cols), rec.Country)
		assert.Equal(t, 2000+i%cols, rec.Year)
		key := fmt.Sprintf("%s/%d", rec.Country, rec.Year)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestTidyRejectsBadYearHeader(t *testing.T) {
	table, err := ReadWideCSV("life.csv", strings.NewReader("country,1800,eighteen-01\nGermany,38,39\n"))
	require.NoError(t, err)

	_, err = Tidy(table, "life_expectancy")
	require.Error(t, err)
	assert.Equal(t, errors.CodeMalformedSource, errors.GetCode(err))
	assert.Contains(t, err.Error(), "eighteen-01")
}

func TestTidyRejectsRepeatedYear(t *testing.T) {
	table, err := ReadWideCSV("life.csv", strings.NewReader("country,1800, 1800\nGermany,38,39\n"))
	require.NoError(t, err)

	_, err = Tidy(table, "life_expectancy")
	assert.Equal(t, errors.CodeMalformedSource, errors.GetCode(err))
}
