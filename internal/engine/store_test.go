package engine

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []UnifiedRecord {
	return []UnifiedRecord{
		{Country: "Germany", Year: 2000, Population: Some(82e6), LifeExpectancy: Some(78), GNIPerCapita: Some(25000)},
		{Country: "France", Year: 2000, Population: Some(60e6), LifeExpectancy: Some(79), GNIPerCapita: Missing},
		{Country: "Germany", Year: 2001, Population: Some(82.3e6), LifeExpectancy: Some(78.3), GNIPerCapita: Some(25500)},
		{Country: "Chad", Year: 2000, Population: Some(8e6), LifeExpectancy: Some(48), GNIPerCapita: Some(700)},
	}
}

func TestColumnStoreDictionary(t *testing.T) {
	cs := NewColumnStore(sampleRecords())

	assert.Equal(t, 4, cs.Len())
	assert.Equal(t, []string{"Germany", "France", "Chad"}, cs.Countries())
	assert.Equal(t, []int32{0, 1, 0, 2}, cs.CountryIDs)

	id, ok := cs.CountryID("Chad")
	assert.True(t, ok)
	assert.Equal(t, int32(2), id)

	assert.Equal(t, sampleRecords()[1], cs.Record(1))
	assert.False(t, cs.Complete(1))
}

func TestColumnStoreSelect(t *testing.T) {
	cs := NewColumnStore(sampleRecords())

	all := cs.Select([]string{"France", "Germany", "Atlantis"}, false)
	require.Len(t, all, 3)
	assert.Equal(t, "Germany", all[0].Country)
	assert.Equal(t, "France", all[1].Country)

	complete := cs.Select([]string{"France", "Germany"}, true)
	require.Len(t, complete, 2)
	for _, r := range complete {
		assert.Equal(t, "Germany", r.Country)
	}

	assert.Empty(t, cs.Select(nil, false))
}

func TestWriteArrowRoundTrip(t *testing.T) {
	cs := NewColumnStore(sampleRecords())

	var buf bytes.Buffer
	require.NoError(t, cs.WriteArrow(&buf))

	rdr, err := ipc.NewReader(&buf, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer rdr.Release()

	assert.True(t, rdr.Schema().Equal(ArrowSchema))
	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.EqualValues(t, 4, rec.NumRows())

	countries := rec.Column(0).(*array.String)
	years := rec.Column(1).(*array.Int32)
	gni := rec.Column(4).(*array.Float64)
	assert.Equal(t, "France", countries.Value(1))
	assert.Equal(t, int32(2001), years.Value(2))
	assert.True(t, gni.IsNull(1))
	assert.Equal(t, 700.0, gni.Value(3))
	assert.False(t, rdr.Next())
}

func TestArrowRecordReleasesMemory(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec := NewColumnStore(sampleRecords()).ArrowRecord(mem)
	assert.EqualValues(t, 5, rec.NumCols())
	rec.Release()
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewColumnStore(sampleRecords()).WriteCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, UnifiedColumns, rows[0])
	assert.Equal(t, []string{"France", "2000", "60000000", "79", ""}, rows[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewColumnStore(sampleRecords()).WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("gapminder")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, UnifiedColumns, rows[0])
	assert.Equal(t, "Chad", rows[4][0])
	assert.Equal(t, "700", rows[4][4])
}
