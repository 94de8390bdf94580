package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gapminder/internal"
	"gapminder/internal/errors"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountryColumn is the identity column of every source table.
const CountryColumn = "country"

// Cell is a raw source cell. Present is false for the missing marker.
type Cell struct {
	Text    string
	Present bool
}

// MissingCell is the missing marker.
var MissingCell = Cell{}

// TextCell wraps raw text.
func TextCell(s string) Cell { return Cell{Text: s, Present: true} }

// WideTable holds one row per country and one column per year, as read.
type WideTable struct {
	Source string
	Years  []string
	Rows   []WideRow
}

// WideRow is a country and its cells, aligned with WideTable.Years.
type WideRow struct {
	Country string
	Cells   []Cell
}

// SourceReader reads a wide table from a .csv or .xlsx file
type SourceReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewSourceReader picks the format from the file extension; anything that is
// not .xlsx is read as CSV.
func NewSourceReader(filePath string, logger *internal.Logger) *SourceReader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = "xlsx"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SourceReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadWide reads the whole file. A missing or unreadable file is
// SOURCE_NOT_FOUND; a structurally broken one is MALFORMED_SOURCE.
func (r *SourceReader) ReadWide() (*WideTable, error) {
	start := time.Now()

	var (
		table *WideTable
		err   error
	)
	switch r.fileType {
	case "xlsx":
		table, err = r.readExcel()
	default:
		table, err = r.readCSV()
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[SourceReader] %s read in %v (%d countries, %d years)", r.filePath, time.Since(start), len(table.Rows), len(table.Years))
	return table, nil
}

func (r *SourceReader) readCSV() (*WideTable, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.SourceNotFound(r.filePath, err)
	}
	defer f.Close()
	return ReadWideCSV(r.filePath, f)
}

func (r *SourceReader) readExcel() (*WideTable, error) {
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, errors.SourceNotFound(r.filePath, err)
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeMalformedSource, fmt.Errorf("open %s: %w", r.filePath, err))
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, errors.WithCode(errors.CodeMalformedSource, fmt.Errorf("read %s: %w", r.filePath, err))
	}
	return buildWideTable(r.filePath, rows)
}

// ReadWideCSV parses CSV text. A leading UTF-8 or UTF-16 byte order mark is
// honoured.
func ReadWideCSV(source string, in io.Reader) (*WideTable, error) {
	reader := csv.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeMalformedSource, fmt.Errorf("read %s: %w", source, err))
	}
	return buildWideTable(source, rows)
}

func buildWideTable(source string, rows [][]string) (*WideTable, error) {
	if len(rows) == 0 {
		return nil, errors.MalformedSource(source, "no header row")
	}

	header := rows[0]
	countryIdx := -1
	table := &WideTable{Source: source}
	cols := make([]int, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == CountryColumn && countryIdx < 0 {
			countryIdx = i
			continue
		}
		table.Years = append(table.Years, h)
		cols = append(cols, i)
	}
	if countryIdx < 0 {
		return nil, errors.MalformedSource(source, fmt.Sprintf("missing %q column", CountryColumn))
	}

	table.Rows = make([]WideRow, 0, len(rows)-1)
	for n, rec := range rows[1:] {
		if len(rec) > len(header) {
			return nil, errors.MalformedSource(source, fmt.Sprintf("line %d has %d fields, header has %d", n+2, len(rec), len(header)))
		}
		row := WideRow{Cells: make([]Cell, len(cols))}
		if countryIdx < len(rec) {
			row.Country = rec[countryIdx]
		}
		for j, col := range cols {
			if col < len(rec) {
				row.Cells[j] = TextCell(rec[col])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
